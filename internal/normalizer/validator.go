package normalizer

import (
	"fmt"

	"fortunesite/internal/models"
)

// Validator checks record invariants before mapping.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns a *NormalizationError for the first violated invariant.
func (v *Validator) Validate(r Record) error {
	if r == nil {
		return &NormalizationError{Field: "record", Err: ErrUnknownRecord}
	}

	if r.RecordID() == "" {
		return fieldError(r, "id", ErrMissingID)
	}

	if f, ok := r.(fortune); ok {
		return v.validateFortune(r, f.rec)
	}

	return nil
}

func (v *Validator) validateFortune(r Record, rec models.FortuneRecord) error {
	if _, ok := fortuneCategoryLabels[rec.Category]; !ok {
		return fieldError(r, "category", fmt.Errorf("%w: %q", ErrUnknownCategory, rec.Category))
	}

	if _, err := models.ParseZodiacSign(string(rec.ZodiacSign)); err != nil {
		return fieldError(r, "zodiacSign", fmt.Errorf("%w: %q", ErrUnknownZodiacSign, rec.ZodiacSign))
	}

	return nil
}
