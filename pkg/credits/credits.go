// Package credits models production credits and their display grouping.
package credits

import (
	"encoding/json"
	"strings"
)

// Credit is one contributor of a production. Both values are kept as they
// appear in the export; a missing key encodes as null.
type Credit struct {
	Name         json.RawMessage `json:"name"`
	Contribution json.RawMessage `json:"contribution"`
}

// NameText is the contributor's name as display text.
func (c Credit) NameText() string {
	return text(c.Name)
}

// ContributionText is the contribution role as display text.
func (c Credit) ContributionText() string {
	return text(c.Contribution)
}

// Decode flattens a credit list. Anything other than an array yields an empty
// list; elements that are not objects are dropped.
func Decode(raw json.RawMessage) []Credit {
	list := []Credit{}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return list
	}

	for _, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}

		list = append(list, Credit{Name: fields["name"], Contribution: fields["contribution"]})
	}

	return list
}

// Group collects the names credited for one contribution role.
type Group struct {
	Contribution string
	Names        []string
}

// GroupByContribution groups credits by role. Roles keep the order in which they
// first appear, names keep input order within a role.
func GroupByContribution(list []Credit) []Group {
	var groups []Group

	positions := make(map[string]int)

	for _, c := range list {
		role := c.ContributionText()

		idx, ok := positions[role]
		if !ok {
			idx = len(groups)
			positions[role] = idx
			groups = append(groups, Group{Contribution: role})
		}

		groups[idx].Names = append(groups[idx].Names, c.NameText())
	}

	return groups
}

// Format renders groups one per line as "Role: name, name".
func Format(groups []Group) string {
	var sb strings.Builder

	for _, g := range groups {
		sb.WriteString(g.Contribution)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(g.Names, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// text renders a JSON value for display: strings unquoted, other values as
// written, absent or null values as "".
func text(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
