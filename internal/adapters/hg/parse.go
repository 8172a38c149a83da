package hg

import (
	"regexp"
	"strings"
)

var (
	spaceRun = regexp.MustCompile(`[\t ]+`)
	lineSep  = regexp.MustCompile(`[\r\n]+`)
)

// NormalizeLines trims output, collapses runs of blanks and splits it into lines.
func NormalizeLines(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	out = spaceRun.ReplaceAllString(out, " ")
	return lineSep.Split(out, -1)
}
