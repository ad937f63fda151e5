package interaction

import "github.com/matzehuels/flowcanvas/pkg/errors"

var errTransform = errors.New(errors.ErrCodeInternal, "coordinate transform failed")
