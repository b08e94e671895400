// Package models defines the data structures of the CMS export document.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Export loading errors.
var (
	ErrReadExport   = errors.New("failed to read export document")
	ErrDecodeExport = errors.New("failed to decode export document")
)

// Document is the bulk export produced by the content backend.
// Only entries and assets are consumed; other top-level keys are ignored.
type Document struct {
	Entries []Entry `json:"entries"`
	Assets  []Asset `json:"assets"`
}

// Load reads and decodes the export document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadExport, path, err)
	}

	return Parse(data, path)
}

// Parse decodes an export document. source is only used in error messages.
func Parse(data []byte, source string) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeExport, source, err)
	}

	return &doc, nil
}

// AssetIndex maps asset IDs to their records. Later duplicates win.
func (d *Document) AssetIndex() map[string]Asset {
	index := make(map[string]Asset, len(d.Assets))
	for _, asset := range d.Assets {
		index[asset.ID()] = asset
	}

	return index
}

// EntriesOfType returns the entries whose content type equals contentType,
// preserving export order.
func (d *Document) EntriesOfType(contentType string) []Entry {
	var matched []Entry

	for _, entry := range d.Entries {
		if entry.ContentType() == contentType {
			matched = append(matched, entry)
		}
	}

	return matched
}
