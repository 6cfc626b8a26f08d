package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestRequestInput(t *testing.T) {
	in := NewRequestInput(nil)

	assert.True(t, in.Focused())
	assert.NotNil(t, in.Init())

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("send mail")})
	assert.Equal(t, "send mail", in.Value())
	assert.Contains(t, in.View(), ">")

	in.Reset()
	assert.Empty(t, in.Value())

	in.Blur()
	assert.False(t, in.Focused())
}

func TestRequestInput_SetWidth(t *testing.T) {
	in := NewRequestInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 92, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, minWidth, in.textinput.Width)
}
