package models

import "strings"

// RichText is a structured rich-text document node.
type RichText struct {
	NodeType string     `json:"nodeType"`
	Value    string     `json:"value"`
	Content  []RichText `json:"content"`
}

// FirstText returns the value of the first child of the first block,
// which the site uses as the short description.
func (r RichText) FirstText() string {
	if len(r.Content) == 0 || len(r.Content[0].Content) == 0 {
		return ""
	}

	return r.Content[0].Content[0].Value
}

// PlainText flattens the document to plain text, one paragraph per block
// separated by blank lines.
func (r RichText) PlainText() string {
	var blocks []string

	for _, block := range r.Content {
		text := block.text()
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	return strings.Join(blocks, "\n\n")
}

func (r RichText) text() string {
	if r.NodeType == "text" || len(r.Content) == 0 {
		return r.Value
	}

	var sb strings.Builder
	for _, child := range r.Content {
		sb.WriteString(child.text())
	}

	return sb.String()
}
