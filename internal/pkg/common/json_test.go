package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	obj, ok := ExtractJSONObject("```json\n{\"recommendation\": \"Riesling\"}\n```")
	require.True(t, ok)
	assert.Equal(t, `{"recommendation": "Riesling"}`, obj)

	_, ok = ExtractJSONObject("Ein Riesling passt.")
	assert.False(t, ok)
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(`{"name":"Barolo"}`, &v))
	assert.Equal(t, "Barolo", v.Name)

	assert.Error(t, ParseJSON(`{"name":"Barolo"} {"name":"Barbaresco"}`, &v))
	assert.Error(t, ParseJSON(`{name:"Barolo"}`, &v))
	require.NoError(t, ParseJSON(QuoteJSONKeys(`{name:"Barolo"}`), &v))
}
