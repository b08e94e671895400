// Package normalizer turns export entries into the per-category documents the
// site renders. Every category is a declarative table of field specs run by
// one generic engine.
package normalizer

import (
	"fmt"

	"trsi/internal/models"
	"trsi/pkg/utils"
)

// Skip records an entry left out of its category's output.
type Skip struct {
	Err     error
	EntryID string
	Title   string
}

// Result is the normalized output of one category.
type Result struct {
	Category string
	Items    []Item
	Skipped  []Skip
}

// Document returns the result as written to disk: {"<plural>": [...]}.
func (r Result) Document() map[string][]Item {
	return map[string][]Item{r.Category: r.Items}
}

// Processor runs the registered categories over an export document.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	categories  []Category
}

// NewProcessor creates a processor for categories, rejecting malformed tables.
func NewProcessor(categories ...Category) (*Processor, error) {
	p := &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}

	seen := make(map[string]bool, len(categories))

	for _, cat := range categories {
		if err := p.validator.ValidateCategory(cat); err != nil {
			return nil, err
		}

		if seen[cat.Plural] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.Plural)
		}

		seen[cat.Plural] = true
	}

	p.categories = categories

	return p, nil
}

// Categories returns the registered categories in registration order.
func (p *Processor) Categories() []Category {
	return p.categories
}

// Process normalizes every category. Categories share no state, results come
// back in registration order.
func (p *Processor) Process(doc *models.Document, env Env) []Result {
	results := make([]Result, 0, len(p.categories))

	for _, cat := range p.categories {
		results = append(results, p.Normalize(doc, cat, env))
	}

	return results
}

// Normalize filters doc to cat's content type and transforms each entry.
// An entry that fails is skipped and recorded; it never fails the category.
func (p *Processor) Normalize(doc *models.Document, cat Category, env Env) Result {
	result := Result{
		Category: cat.Plural,
		Items:    []Item{},
	}

	for _, entry := range doc.EntriesOfType(cat.ContentType) {
		item, err := p.process(entry, cat, env)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{
				EntryID: entry.ID(),
				Title:   displayName(entry, env.Locale),
				Err:     err,
			})

			continue
		}

		result.Items = append(result.Items, item)
	}

	return result
}

func (p *Processor) process(entry models.Entry, cat Category, env Env) (Item, error) {
	if err := p.validator.Validate(entry, cat, env); err != nil {
		return nil, err
	}

	return p.transformer.Transform(entry, cat, env)
}

// displayName picks something human readable to identify a skipped entry.
func displayName(entry models.Entry, locale string) string {
	reader := NewReader(entry, Env{Locale: locale})

	for _, field := range []string{"title", "name"} {
		if s, ok := reader.String(field); ok {
			return utils.NormalizeWhitespace(s)
		}
	}

	return ""
}
