package scoring

import "errors"

// Error kinds returned by the decision core. Detail is attached with %w
// wrapping, so callers should match with errors.Is.
var (
	ErrInvalidMatrix     = errors.New("invalid comparison matrix")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrEmptyInput        = errors.New("empty input")
	ErrMissingField      = errors.New("missing field")
)

// Kind returns a stable, machine-readable name for a core error, or "" when
// err is not one of the core error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMatrix):
		return "invalid_matrix"
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	default:
		return ""
	}
}
