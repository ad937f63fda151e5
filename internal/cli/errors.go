package cli

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// errInvalidFlow is returned when validation finds invalid nodes; main
// turns it into exit status 1.
var errInvalidFlow = errors.New(errors.ErrCodeInvalidFlow, "flow has invalid nodes")

func errInvalidMeasure(backend string) error {
	return errors.New(errors.ErrCodeInvalidInput, "invalid measure backend: %q (must be one of: static, browser)", backend)
}
