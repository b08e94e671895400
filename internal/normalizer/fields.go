package normalizer

import (
	"fmt"

	"trsi/internal/assets"
	"trsi/internal/models"
	"trsi/pkg/credits"
)

// Extractor computes one output value from an entry.
type Extractor func(r *Reader) (any, error)

// FieldSpec declares one output field of a category.
type FieldSpec struct {
	Extract  Extractor
	Key      string
	Source   string
	Required bool
}

// Required reads text field src; entries without it are skipped.
func Required(key, src string) FieldSpec {
	return FieldSpec{
		Key:      key,
		Source:   src,
		Required: true,
		Extract: func(r *Reader) (any, error) {
			if !r.Has(src) {
				return nil, fmt.Errorf("%w: %s", ErrMissingField, src)
			}

			v, _ := r.Value(src)

			return v, nil
		},
	}
}

// Text reads field src, defaulting to "".
func Text(key, src string) FieldSpec {
	return withDefault(key, src, "")
}

// Nullable reads field src, defaulting to null.
func Nullable(key, src string) FieldSpec {
	return withDefault(key, src, nil)
}

func withDefault(key, src string, def any) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			if v, ok := r.Value(src); ok {
				return v, nil
			}

			return def, nil
		},
	}
}

// Summary reads the first text run of rich-text field src, defaulting to "".
// A plain string field is used as is.
func Summary(key, src string) FieldSpec {
	return richText(key, src, models.RichText.FirstText)
}

// Body flattens rich-text field src to plain text, defaulting to "".
func Body(key, src string) FieldSpec {
	return richText(key, src, models.RichText.PlainText)
}

func richText(key, src string, render func(models.RichText) string) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			if s, ok := r.String(src); ok {
				return s, nil
			}

			var doc models.RichText
			if !r.Decode(src, &doc) {
				return "", nil
			}

			return render(doc), nil
		},
	}
}

// Image resolves the asset linked from field src to a rendition path.
// Without a resolvable link it yields fallback, or null when fallback is empty.
func Image(key, src string, rendition assets.Rendition, fallback string) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			if p, ok := r.ImagePath(src, rendition); ok {
				return p, nil
			}

			if fallback != "" {
				return fallback, nil
			}

			return nil, nil
		},
	}
}

// Credits flattens the credit list in field src, defaulting to [].
// Values are kept as written; elements that are not objects are dropped.
func Credits(key, src string) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			raw, _ := r.Raw(src)

			return credits.Decode(raw), nil
		},
	}
}

// Strings reads a list of strings from field src, defaulting to [].
func Strings(key, src string) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			var list []string
			if !r.Decode(src, &list) || list == nil {
				return []string{}, nil
			}

			return list, nil
		},
	}
}

// Tags lists the identifiers of the entry's metadata tags.
func Tags(key string) FieldSpec {
	return FieldSpec{
		Key: key,
		Extract: func(r *Reader) (any, error) {
			return r.Entry().TagIDs(), nil
		},
	}
}

// YouTube turns the URL in field src into a privacy-enhanced embed URL.
func YouTube(key, src string) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			url, _ := r.String(src)

			return EmbedURL(url), nil
		},
	}
}

// Slug derives a URL slug from text field src.
func Slug(key, src string) FieldSpec {
	return FieldSpec{
		Key:    key,
		Source: src,
		Extract: func(r *Reader) (any, error) {
			title, _ := r.String(src)

			return Slugify(title), nil
		},
	}
}
