package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// logTimeFormat renders timestamps as "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// logFormats maps --log-format values to formatters. JSON and logfmt are
// for running serve under a log collector.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// SetLogFormat switches the output format of the CLI logger.
func (c *CLI) SetLogFormat(name string) error {
	f, ok := logFormats[strings.ToLower(name)]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown log format %q (want text, json or logfmt)", name)
	}
	c.Logger.SetFormatter(f)
	return nil
}

// subsystem returns a child logger whose lines carry prefix.
func (c *CLI) subsystem(prefix string) *log.Logger {
	return c.Logger.WithPrefix(prefix)
}

// progress logs how long a command step took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and any
// extra key-value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, keyvals...)
}
