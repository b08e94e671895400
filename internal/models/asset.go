package models

// AssetFile describes the binary behind an asset for one locale.
type AssetFile struct {
	FileName    string `json:"fileName"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
}

// AssetFields holds the localized fields of an asset.
type AssetFields struct {
	File  map[string]*AssetFile `json:"file"`
	Title map[string]string     `json:"title,omitempty"`
}

// Asset is metadata about one binary file referenced by entries.
type Asset struct {
	Fields AssetFields `json:"fields"`
	Sys    Sys         `json:"sys"`
}

// ID returns the asset identifier.
func (a Asset) ID() string {
	return a.Sys.ID
}

// File returns the file record for locale, if present and named.
func (a Asset) File(locale string) (*AssetFile, bool) {
	file, ok := a.Fields.File[locale]
	if !ok || file == nil || file.FileName == "" {
		return nil, false
	}

	return file, true
}
