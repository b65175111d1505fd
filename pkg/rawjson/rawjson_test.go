package rawjson

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainObject(t *testing.T) {
	t.Parallel()

	got, err := Extract(`{"a":1}`)

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)
}

func TestExtract_NoiseBeforeAndAfter(t *testing.T) {
	t.Parallel()

	input := "\x1b[32mcompiling...\x1b[0m\n{\"a\":1}\nmore noise"

	got, err := Extract(input)

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)
}

func TestExtract_CRLFNoise(t *testing.T) {
	t.Parallel()

	input := "banner line\r\n[1,2,3]\r\ntrailer\r\n"

	got, err := Extract(input)

	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, got)
}

func TestExtract_EscapedQuotesInsideStrings(t *testing.T) {
	t.Parallel()

	input := `log: {"msg":"she said \"hi\" to me","n":2} done`

	got, err := Extract(input)

	require.NoError(t, err)
	assert.Equal(t, `{"msg":"she said \"hi\" to me","n":2}`, got)
}

func TestExtract_BracesInsideStringLiterals(t *testing.T) {
	t.Parallel()

	// A stack trace with unbalanced-looking braces inside a string must not
	// perturb nesting.
	input := `{"trace":"at main() { line 3","open":"]]}}}"} trailing`

	got, err := Extract(input)

	require.NoError(t, err)
	assert.Equal(t, `{"trace":"at main() { line 3","open":"]]}}}"}`, got)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
}

func TestExtract_TrailingBackslashInString(t *testing.T) {
	t.Parallel()

	input := `{"path":"C:\\tools\\"} rest`

	got, err := Extract(input)

	require.NoError(t, err)
	assert.Equal(t, `{"path":"C:\\tools\\"}`, got)
}

func TestExtract_DeeplyNested(t *testing.T) {
	t.Parallel()

	depth := 12
	value := strings.Repeat(`{"v":`, depth) + "1" + strings.Repeat("}", depth)

	got, err := Extract("noise " + value + " noise")

	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestExtract_FirstOfMultipleValues(t *testing.T) {
	t.Parallel()

	got, err := Extract(`{"first":true} {"second":true}`)

	require.NoError(t, err)
	assert.Equal(t, `{"first":true}`, got)
}

func TestExtract_ArrayValue(t *testing.T) {
	t.Parallel()

	got, err := Extract(`spinner... [{"id":1},{"id":2}] ok`)

	require.NoError(t, err)
	assert.Equal(t, `[{"id":1},{"id":2}]`, got)
}

func TestExtract_StrayOpenerInNoiseSkipped(t *testing.T) {
	t.Parallel()

	// The '[' of the color escape never rebalances; the scan must move on
	// to the real document instead of giving up.
	got, err := Extract("\x1b[33mwarn\x1b[0m {\"a\":1}")

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)
}

func TestExtract_NoJSON(t *testing.T) {
	t.Parallel()

	_, err := Extract("plain text, no structure here")

	require.ErrorIs(t, err, ErrNoJSON)
}

func TestExtract_UnbalancedOpener(t *testing.T) {
	t.Parallel()

	_, err := Extract(`log {"never":"closed"`)

	require.ErrorIs(t, err, ErrNoJSON)
}

func TestExtract_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Extract("")

	require.ErrorIs(t, err, ErrNoJSON)
}

func TestExtract_RoundTripsUnderNoise(t *testing.T) {
	t.Parallel()

	values := []any{
		map[string]any{"a": float64(1), "nested": map[string]any{"b": []any{"x", "y"}}},
		[]any{float64(1), "two", map[string]any{"three": true}},
		map[string]any{"quote": `he said "no"`, "slash": `a\b`},
	}

	for _, v := range values {
		encoded, err := json.Marshal(v)
		require.NoError(t, err)

		got, err := Extract("prefix \x1b[1mnoise\x1b[0m\r\n" + string(encoded) + "\r\nsuffix")
		require.NoError(t, err)
		assert.Equal(t, string(encoded), got)

		var decoded any

		require.NoError(t, json.Unmarshal([]byte(got), &decoded))
		assert.Equal(t, v, decoded)
	}
}
