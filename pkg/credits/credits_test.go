package credits

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credit(name, contribution string) Credit {
	quote := func(s string) json.RawMessage {
		data, _ := json.Marshal(s)
		return data
	}

	return Credit{Name: quote(name), Contribution: quote(contribution)}
}

func TestGroupByContribution(t *testing.T) {
	list := []Credit{
		credit("Coder", "Code"),
		credit("Artist", "Graphics"),
		credit("Hacker", "Code"),
		credit("Composer", "Music"),
	}

	groups := GroupByContribution(list)

	assert.Equal(t, []Group{
		{Contribution: "Code", Names: []string{"Coder", "Hacker"}},
		{Contribution: "Graphics", Names: []string{"Artist"}},
		{Contribution: "Music", Names: []string{"Composer"}},
	}, groups)

	assert.Equal(t, "Code: Coder, Hacker\nGraphics: Artist\nMusic: Composer\n", Format(groups))
}

func TestGroupByContribution_Empty(t *testing.T) {
	assert.Empty(t, GroupByContribution(nil))
	assert.Equal(t, "", Format(nil))
}

func TestDecode_KeepsValuesVerbatim(t *testing.T) {
	list := Decode(json.RawMessage(`[{"name": 7, "contribution": "Music"}, {"name": "B", "contribution": "Music"}, {"name": "C"}, 42, "x"]`))
	require.Len(t, list, 3)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"name":7,"contribution":"Music"},{"name":"B","contribution":"Music"},{"name":"C","contribution":null}]`,
		string(data))

	assert.Equal(t, "7", list[0].NameText())
	assert.Equal(t, "", list[2].ContributionText())
	assert.Equal(t, []Group{
		{Contribution: "Music", Names: []string{"7", "B"}},
		{Contribution: "", Names: []string{"C"}},
	}, GroupByContribution(list))
}

func TestDecode_NonArray(t *testing.T) {
	for _, raw := range []string{`"Coder"`, `{"name": "Coder"}`, `null`, ``} {
		assert.Equal(t, []Credit{}, Decode(json.RawMessage(raw)), raw)
	}
}
