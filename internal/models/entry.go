package models

import (
	"bytes"
	"encoding/json"
)

// Sys carries the system metadata of an entry, asset or link.
type Sys struct {
	ContentType *Link  `json:"contentType,omitempty"`
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	LinkType    string `json:"linkType,omitempty"`
}

// Link is a reference to another record, e.g. an entry's image field pointing at an asset.
type Link struct {
	Sys Sys `json:"sys"`
}

// Metadata holds entry-level metadata such as tags.
type Metadata struct {
	Tags []Link `json:"tags"`
}

// LocalizedFields maps field name -> locale -> raw value.
type LocalizedFields map[string]map[string]json.RawMessage

// Entry is one content record of the export.
type Entry struct {
	Metadata *Metadata       `json:"metadata,omitempty"`
	Fields   LocalizedFields `json:"fields"`
	Sys      Sys             `json:"sys"`
}

// ID returns the entry identifier.
func (e Entry) ID() string {
	return e.Sys.ID
}

// ContentType returns the content type identifier, or "" when the entry has none.
func (e Entry) ContentType() string {
	if e.Sys.ContentType == nil {
		return ""
	}

	return e.Sys.ContentType.Sys.ID
}

// TagIDs returns the identifiers of the entry's tags. Never nil.
func (e Entry) TagIDs() []string {
	tags := []string{}
	if e.Metadata == nil {
		return tags
	}

	for _, tag := range e.Metadata.Tags {
		tags = append(tags, tag.Sys.ID)
	}

	return tags
}

// Field returns the raw value of a field for a locale.
// A missing field, a missing locale and an explicit JSON null are all reported as absent.
func (e Entry) Field(name, locale string) (json.RawMessage, bool) {
	byLocale, ok := e.Fields[name]
	if !ok {
		return nil, false
	}

	raw, ok := byLocale[locale]
	if !ok || isNull(raw) {
		return nil, false
	}

	return raw, true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
