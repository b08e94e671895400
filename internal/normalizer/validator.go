package normalizer

import (
	"fmt"

	"trsi/internal/models"
)

// Validator checks category tables and the mandatory fields of entries.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCategory checks that a category table is usable.
func (v *Validator) ValidateCategory(cat Category) error {
	if cat.ContentType == "" {
		return ErrNoContentType
	}

	if cat.Plural == "" {
		return fmt.Errorf("%w: %s", ErrNoPlural, cat.ContentType)
	}

	seen := make(map[string]bool, len(cat.Fields))

	for i, spec := range cat.Fields {
		if spec.Extract == nil {
			return fmt.Errorf("%w: %s field[%d] %q", ErrNoExtractor, cat.ContentType, i, spec.Key)
		}

		if seen[spec.Key] {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateKey, cat.ContentType, spec.Key)
		}

		seen[spec.Key] = true
	}

	return nil
}

// Validate checks that entry carries every mandatory field of cat.
func (v *Validator) Validate(entry models.Entry, cat Category, env Env) error {
	for _, spec := range cat.Fields {
		if !spec.Required {
			continue
		}

		if _, ok := entry.Field(spec.Source, env.Locale); !ok {
			return fmt.Errorf("%w: %s on %s entry %s", ErrMissingField, spec.Source, cat.ContentType, entry.ID())
		}
	}

	return nil
}
