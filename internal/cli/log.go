package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped records at or above level to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stageTimer times the steps of a long command. Steps log at debug level
// with the time since the previous step; done logs the total at info.
// Not safe for concurrent use.
type stageTimer struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newStageTimer(l *log.Logger) *stageTimer {
	now := time.Now()
	return &stageTimer{logger: l, start: now, last: now}
}

func (t *stageTimer) step(name string, keyvals ...any) {
	now := time.Now()
	t.logger.Debug(name, append(keyvals, "took", now.Sub(t.last).Round(time.Millisecond))...)
	t.last = now
}

func (t *stageTimer) done(msg string, keyvals ...any) {
	t.logger.Info(msg, append(keyvals, "elapsed", time.Since(t.start).Round(time.Millisecond))...)
}
