package workcopy

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/hgresolve/internal/core/ports"
)

var (
	percentLine = regexp.MustCompile(`\d{1,3}%`)
	lineBreaks  = regexp.MustCompile(`[\r\n]+`)
	eraseLine   = regexp.MustCompile(`\x1b\[K`)
)

// progressReporter forwards percentage lines of clone output to a Logger.
// Nothing is reported before delay has elapsed, and at most one chunk is
// reported per interval.
type progressReporter struct {
	logger   ports.Logger
	interval time.Duration
	timer    *time.Timer
	armed    atomic.Bool
	stopped  atomic.Bool

	mu   sync.Mutex
	last time.Time
}

func newProgressReporter(logger ports.Logger, delay, interval time.Duration) *progressReporter {
	r := &progressReporter{logger: logger, interval: interval}
	r.timer = time.AfterFunc(delay, func() { r.armed.Store(true) })
	return r
}

// Write never fails so the clone output stream is not interrupted.
func (r *progressReporter) Write(p []byte) (int, error) {
	if !r.armed.Load() || r.stopped.Load() {
		return len(p), nil
	}

	r.mu.Lock()
	now := time.Now()
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return len(p), nil
	}
	r.last = now
	r.mu.Unlock()

	for _, line := range lineBreaks.Split(string(p), -1) {
		if !percentLine.MatchString(line) {
			continue
		}
		r.logger.Event("progress", strings.TrimSpace(eraseLine.ReplaceAllString(line, "")))
	}
	return len(p), nil
}

// Stop cancels the delay timer and silences further writes.
func (r *progressReporter) Stop() {
	r.stopped.Store(true)
	r.timer.Stop()
}
