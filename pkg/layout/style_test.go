package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

func TestDefaultStyleValid(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatalf("DefaultStyle().Validate() = %v", err)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    func(Style) bool
		wantErr bool
	}{
		{
			name: "empty keeps defaults",
			data: "",
			want: func(s Style) bool { return s == DefaultStyle() },
		},
		{
			name: "override row height",
			data: "row_height = 28\nheader_height = 32\nbaseline_adjust = 4\n",
			want: func(s Style) bool {
				return s.RowHeight == 28 && s.HeaderHeight == 32 && s.BaselineAdjust == 4 && s.Width == 280
			},
		},
		{name: "zero width", data: "width = 0", wantErr: true},
		{name: "negative padding", data: "content_padding = -1", wantErr: true},
		{name: "baseline beyond row", data: "baseline_adjust = 40", wantErr: true},
		{name: "malformed", data: "width = ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidStyle) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidStyle)
				}
				return
			}
			if !tt.want(got) {
				t.Errorf("ParseStyle() = %+v", got)
			}
		})
	}
}

func TestLoadStyle(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		s, err := LoadStyle("")
		if err != nil || s != DefaultStyle() {
			t.Errorf("LoadStyle(\"\") = %+v, %v", s, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStyle(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("LoadStyle() error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "style.toml")
		if err := os.WriteFile(path, []byte("width = 320\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		s, err := LoadStyle(path)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if s.Width != 320 || s.RowHeight != 32 {
			t.Errorf("LoadStyle() = %+v", s)
		}
	})
}
