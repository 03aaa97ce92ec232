package normalizer

import (
	"errors"
	"fmt"
)

// Normalization errors.
var (
	ErrNormalization     = errors.New("normalization failed")
	ErrMissingID         = errors.New("record has no id")
	ErrUnknownCategory   = errors.New("unmapped fortune category")
	ErrUnknownZodiacSign = errors.New("unknown zodiac sign")
	ErrInvalidDate       = errors.New("unparseable timestamp")
	ErrUnknownRecord     = errors.New("unknown record variant")
)

// NormalizationError reports a record whose shape violates an invariant.
type NormalizationError struct {
	Err   error
	Kind  Kind
	ID    string
	Field string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s %q: field %s: %v", e.Kind, e.ID, e.Field, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// Is makes every NormalizationError match ErrNormalization.
func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

func fieldError(r Record, field string, err error) *NormalizationError {
	return &NormalizationError{Kind: r.Kind(), ID: r.RecordID(), Field: field, Err: err}
}
