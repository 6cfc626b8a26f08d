package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetails_String(t *testing.T) {
	d := Details{"to": "a@x.com", "empty": "", "n": float64(3), "b": true, "obj": map[string]any{}}

	assert.Equal(t, "a@x.com", d.String("to", "x"))
	assert.Equal(t, "x", d.String("empty", "x"))
	assert.Equal(t, "x", d.String("missing", "x"))
	assert.Equal(t, "3", d.String("n", ""))
	assert.Equal(t, "true", d.String("b", ""))
	assert.Equal(t, "x", d.String("obj", "x"))
}

func TestDetails_Int(t *testing.T) {
	d := Details{
		"f":    float64(5),
		"i":    7,
		"s":    " 12 ",
		"num":  json.Number("9"),
		"bad":  "many",
		"null": nil,
	}

	assert.Equal(t, 5, d.Int("f", 10))
	assert.Equal(t, 7, d.Int("i", 10))
	assert.Equal(t, 12, d.Int("s", 10))
	assert.Equal(t, 9, d.Int("num", 10))
	assert.Equal(t, 10, d.Int("bad", 10))
	assert.Equal(t, 10, d.Int("null", 10))
	assert.Equal(t, 10, d.Int("missing", 10))
}

func TestDetails_StringSlice(t *testing.T) {
	d := Details{
		"list":      []any{"a@x.com", "", "b@x.com"},
		"attendees": []any{map[string]any{"email": "c@x.com"}, map[string]any{"name": "no email"}},
		"csv":       "INBOX, UNREAD ,",
		"typed":     []string{"x"},
	}

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, d.StringSlice("list"))
	assert.Equal(t, []string{"c@x.com"}, d.StringSlice("attendees"))
	assert.Equal(t, []string{"INBOX", "UNREAD"}, d.StringSlice("csv"))
	assert.Equal(t, []string{"x"}, d.StringSlice("typed"))
	assert.Nil(t, d.StringSlice("missing"))
}

func TestDetails_Without(t *testing.T) {
	d := Details{"id": "1", "title": "T"}
	rest := d.Without("id")

	assert.Equal(t, Details{"title": "T"}, rest)
	assert.Equal(t, "1", d["id"], "original must not change")
	assert.True(t, d.Has("id"))
	assert.False(t, Details{"id": nil}.Has("id"))
}
