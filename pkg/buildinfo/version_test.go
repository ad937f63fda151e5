package buildinfo

import (
	"strings"
	"testing"
)

func TestGetKeepsLinkerValues(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02T03:04:05Z"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })

	i := Get()
	if i.Version != "v1.2.3" || i.Commit != "abc123" || i.Date != "2026-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v", i)
	}
	if got := Template(); !strings.Contains(got, "version v1.2.3") || !strings.HasPrefix(got, "{{.Name}}") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.Contains(got, "commit: abc123") {
		t.Errorf("String() = %q", got)
	}
}
