package normalizer

import (
	"encoding/json"

	"trsi/internal/assets"
	"trsi/internal/models"
)

// Env is the per-run context shared by every extractor.
type Env struct {
	Assets      map[string]models.Asset
	Locale      string
	ImagePrefix string
	Extension   string
}

// NewEnv builds an Env for doc.
func NewEnv(doc *models.Document, locale, imagePrefix, extension string) Env {
	return Env{
		Assets:      doc.AssetIndex(),
		Locale:      locale,
		ImagePrefix: imagePrefix,
		Extension:   extension,
	}
}

// Reader gives extractors typed access to one entry's localized fields.
type Reader struct {
	env   Env
	entry models.Entry
}

// NewReader returns a reader over entry.
func NewReader(entry models.Entry, env Env) *Reader {
	return &Reader{entry: entry, env: env}
}

// Entry returns the underlying entry.
func (r *Reader) Entry() models.Entry {
	return r.entry
}

// Raw returns the raw value of field src for the configured locale.
func (r *Reader) Raw(src string) (json.RawMessage, bool) {
	return r.entry.Field(src, r.env.Locale)
}

// Has reports whether field src is present.
func (r *Reader) Has(src string) bool {
	_, ok := r.Raw(src)
	return ok
}

// String returns field src when it is a JSON string.
func (r *Reader) String(src string) (string, bool) {
	raw, ok := r.Raw(src)
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// Value returns field src as a string when it is one, otherwise as the raw
// JSON value, so unexpected shapes pass through unchanged.
func (r *Reader) Value(src string) (any, bool) {
	raw, ok := r.Raw(src)
	if !ok {
		return nil, false
	}

	if s, ok := r.String(src); ok {
		return s, true
	}

	return raw, true
}

// Decode unmarshals field src into v.
func (r *Reader) Decode(src string, v any) bool {
	raw, ok := r.Raw(src)
	if !ok {
		return false
	}

	return json.Unmarshal(raw, v) == nil
}

// AssetFileName follows the asset link in field src and returns the linked
// asset's file name. Dangling links report false.
func (r *Reader) AssetFileName(src string) (string, bool) {
	var link models.Link
	if !r.Decode(src, &link) || link.Sys.ID == "" {
		return "", false
	}

	asset, ok := r.env.Assets[link.Sys.ID]
	if !ok {
		return "", false
	}

	file, ok := asset.File(r.env.Locale)
	if !ok {
		return "", false
	}

	return file.FileName, true
}

// ImagePath resolves the asset linked from field src to the public path of rendition.
func (r *Reader) ImagePath(src string, rendition assets.Rendition) (string, bool) {
	fileName, ok := r.AssetFileName(src)
	if !ok {
		return "", false
	}

	return assets.PublicPath(r.env.ImagePrefix, rendition, fileName, r.env.Extension), true
}
