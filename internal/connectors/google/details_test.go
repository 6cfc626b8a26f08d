package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

type decodeTarget struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Labels []string `json:"labels"`
	Flag   bool     `json:"flag"`
}

func TestDecode(t *testing.T) {
	t.Run("maps json tagged fields", func(t *testing.T) {
		var out decodeTarget
		err := Decode(domain.Details{
			"name":   "report",
			"count":  float64(3),
			"labels": []any{"a", "b"},
			"flag":   true,
			"extra":  "ignored",
		}, &out)

		require.NoError(t, err)
		assert.Equal(t, decodeTarget{Name: "report", Count: 3, Labels: []string{"a", "b"}, Flag: true}, out)
	})

	t.Run("accepts loosely typed values", func(t *testing.T) {
		var out decodeTarget
		err := Decode(domain.Details{"count": "7", "flag": "true", "name": 42}, &out)

		require.NoError(t, err)
		assert.Equal(t, 7, out.Count)
		assert.True(t, out.Flag)
		assert.Equal(t, "42", out.Name)
	})

	t.Run("reports invalid input", func(t *testing.T) {
		var out decodeTarget
		err := Decode(domain.Details{"count": map[string]any{"x": 1}}, &out)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nil details decode to zero value", func(t *testing.T) {
		var out decodeTarget
		require.NoError(t, Decode(nil, &out))
		assert.Equal(t, decodeTarget{}, out)
	})
}
