package layout

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Style holds the node geometry constants. The zero value is not usable;
// start from [DefaultStyle].
type Style struct {
	Width          float64 `toml:"width" json:"width"`
	MinHeight      float64 `toml:"min_height" json:"minHeight"`
	HeaderHeight   float64 `toml:"header_height" json:"headerHeight"`
	RowHeight      float64 `toml:"row_height" json:"rowHeight"`
	ContentPadding float64 `toml:"content_padding" json:"contentPadding"`
	BottomPadding  float64 `toml:"bottom_padding" json:"bottomPadding"`
	BaselineAdjust float64 `toml:"baseline_adjust" json:"baselineAdjust"`
}

// DefaultStyle returns the canonical node style.
func DefaultStyle() Style {
	return Style{
		Width:          280,
		MinHeight:      96,
		HeaderHeight:   36,
		RowHeight:      32,
		ContentPadding: 12,
		BottomPadding:  12,
		BaselineAdjust: 5,
	}
}

// Validate reports whether the style can produce a well-formed node.
func (s Style) Validate() error {
	switch {
	case s.Width <= 0:
		return errors.New(errors.ErrCodeInvalidStyle, "width must be positive, got %v", s.Width)
	case s.RowHeight <= 0:
		return errors.New(errors.ErrCodeInvalidStyle, "row_height must be positive, got %v", s.RowHeight)
	case s.HeaderHeight < 0, s.ContentPadding < 0, s.BottomPadding < 0, s.MinHeight < 0:
		return errors.New(errors.ErrCodeInvalidStyle, "heights and paddings must not be negative")
	case s.BaselineAdjust < 0 || s.BaselineAdjust >= s.RowHeight:
		return errors.New(errors.ErrCodeInvalidStyle, "baseline_adjust must be in [0, row_height), got %v", s.BaselineAdjust)
	}
	return nil
}

// ParseStyle decodes TOML data on top of [DefaultStyle]. Keys that are not
// present keep their default value.
func ParseStyle(data []byte) (Style, error) {
	s := DefaultStyle()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parse style")
	}
	if err := s.Validate(); err != nil {
		return Style{}, err
	}
	return s, nil
}

// LoadStyle reads a TOML style file. An empty path yields [DefaultStyle].
func LoadStyle(path string) (Style, error) {
	if path == "" {
		return DefaultStyle(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Style{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "style file %s", path)
		}
		return Style{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read style file %s", path)
	}
	return ParseStyle(data)
}
