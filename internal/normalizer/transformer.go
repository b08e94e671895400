package normalizer

import (
	"fmt"

	"trsi/internal/models"
)

// Transformer turns an entry into an item by running a category's extractors.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform extracts every field of cat from entry, in table order.
func (t *Transformer) Transform(entry models.Entry, cat Category, env Env) (Item, error) {
	reader := NewReader(entry, env)
	item := make(Item, 0, len(cat.Fields))

	for _, spec := range cat.Fields {
		value, err := spec.Extract(reader)
		if err != nil {
			return nil, fmt.Errorf("%s entry %s: field %s: %w", cat.ContentType, entry.ID(), spec.Key, err)
		}

		item = append(item, Field{Key: spec.Key, Value: value})
	}

	return item, nil
}
