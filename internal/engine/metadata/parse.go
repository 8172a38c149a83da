package metadata

import (
	"regexp"
	"strings"
)

// derefSuffix marks a peeled tag entry.
const derefSuffix = "^{}"

var (
	refLine = regexp.MustCompile(`^(\S+)\s+((?:[0-9]+:)?[a-f0-9]{12})$`)
	blanks  = regexp.MustCompile(`[\t ]+`)
)

// ParseRefs maps ref names to their short commit id. Lines that do not look
// like "name rev:node" are skipped. When excludeDeref is set, peeled
// entries are dropped.
func ParseRefs(lines []string, excludeDeref bool) map[string]string {
	refs := make(map[string]string, len(lines))
	for _, line := range lines {
		line = blanks.ReplaceAllString(strings.TrimSpace(line), " ")
		m := refLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if excludeDeref && strings.HasSuffix(m[1], derefSuffix) {
			continue
		}
		refs[m[1]] = m[2]
	}
	return refs
}
