package insight

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult_TrimsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	got, err := ParseResult("```json\n" + `{"summary":"  s  ","themes":["b"," a ",""],"signal":" x ","prompts":["q1","q2"],"risk":"  "}` + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "s", got.Summary)
	assert.Equal(t, []string{"b", "a"}, got.Themes)
	assert.Equal(t, "x", got.Signal)
	assert.Equal(t, []string{"q1", "q2"}, got.Prompts)
	assert.False(t, got.HasRisk())
}

func TestParseResult_KeepsRisk(t *testing.T) {
	t.Parallel()

	got, err := ParseResult(`{"summary":"s","themes":["a"],"signal":"x","prompts":["p"],"risk":"Overthinking."}`)
	require.NoError(t, err)
	assert.True(t, got.HasRisk())
	assert.Equal(t, "Overthinking.", got.Risk)
}

func TestParseResult_RejectsMissingKeys(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		`{"themes":["a"],"signal":"x","prompts":["p"]}`,
		`{"summary":"s","signal":"x","prompts":["p"]}`,
		`{"summary":"s","themes":["a"],"prompts":["p"]}`,
		`{"summary":"s","themes":["a"],"signal":"x"}`,
		`{"summary":null,"themes":["a"],"signal":"x","prompts":["p"]}`,
		`{"summary":"s","themes":["  "],"signal":"x","prompts":["p"]}`,
		`{"summary":"s","themes":["a"],"signal":42,"prompts":["p"]}`,
		`{"summary":"s","themes":[1,2],"signal":"x","prompts":["p"]}`,
		``,
	} {
		_, err := ParseResult(text)
		assert.True(t, IsMalformed(err), "text=%s err=%v", text, err)
	}
}

func TestResult_ValidateDemos(t *testing.T) {
	t.Parallel()

	for _, key := range DemoKeys() {
		r, ok := Demo(key)
		require.True(t, ok)
		assert.NoError(t, r.Validate(), key)
		assert.True(t, r.HasRisk(), key)
	}
	assert.True(t, IsMalformed(Result{}.Validate()))
}

func TestMarshalSnapshot_OmitsAbsentRisk(t *testing.T) {
	t.Parallel()

	r := Result{Summary: "s", Themes: []string{"a"}, Signal: "x", Prompts: []string{"p"}}
	b, err := MarshalSnapshot(r, false)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "risk")
	assert.Contains(t, m, "summary")

	_, err = MarshalSnapshot(Result{}, true)
	assert.True(t, IsMalformed(err))
}

func TestResult_CloneDoesNotShareSlices(t *testing.T) {
	t.Parallel()

	r := Result{Themes: []string{"a"}, Prompts: []string{"p"}}
	c := r.Clone()
	c.Themes[0] = "b"
	c.Prompts[0] = "q"
	assert.Equal(t, "a", r.Themes[0])
	assert.Equal(t, "p", r.Prompts[0])
}
