package rangeset

import (
	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned, wrapped, for every malformed input:
// reversed bounds, malformed pairs, empty inputs and negative counts.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
