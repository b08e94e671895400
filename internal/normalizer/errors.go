package normalizer

import "errors"

// Normalization errors.
var (
	ErrMissingField      = errors.New("missing mandatory field")
	ErrNoContentType     = errors.New("category has no content type")
	ErrNoPlural          = errors.New("category has no output name")
	ErrDuplicateKey      = errors.New("duplicate output key")
	ErrNoExtractor       = errors.New("field has no extractor")
	ErrDuplicateCategory = errors.New("duplicate category")
)
