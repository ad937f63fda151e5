package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("node assembled") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("port aligned") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("port aligned") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if err := c.SetLogFormat("JSON"); err != nil {
		t.Fatalf("SetLogFormat(JSON) error: %v", err)
	}

	c.subsystem("http").Info("request", "route", "/v1/nodes", "status", 201)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if line["msg"] != "request" || line["prefix"] != "http" || line["route"] != "/v1/nodes" {
		t.Errorf("log line = %v", line)
	}
}

func TestSetLogFormatUnknown(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	err := c.SetLogFormat("xml")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetLogFormat(xml) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if err := c.SetLogFormat("logfmt"); err != nil {
		t.Fatal(err)
	}

	newProgress(c.Logger).done("assembled flow", "nodes", 6)

	out := buf.String()
	for _, want := range []string{"msg=\"assembled flow\"", "elapsed=", "nodes=6"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress line %q missing %q", out, want)
		}
	}
}
