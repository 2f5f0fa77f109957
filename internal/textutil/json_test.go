package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjectBare(t *testing.T) {
	out, err := ExtractJSONObject(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtractJSONObjectFenced(t *testing.T) {
	out, err := ExtractJSONObject("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtractJSONObjectWrappedInProse(t *testing.T) {
	out, err := ExtractJSONObject("Here is the result:\n{\"a\": {\"b\": 2}}\nHope that helps!")
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 2}}`, out)
}

func TestExtractJSONObjectMissing(t *testing.T) {
	_, err := ExtractJSONObject("no json here")
	assert.ErrorIs(t, err, ErrNoJSONObject)
}

func TestStripCodeFencesPlain(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", StripCodeFences("plain"))
}
