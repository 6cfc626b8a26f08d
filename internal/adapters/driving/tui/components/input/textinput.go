// Package input provides the request input for the chat TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui/styles"
)

// minWidth is the narrowest the text field is allowed to get.
const minWidth = 20

// RequestInput wraps a bubbles textinput with a prompt label.
type RequestInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewRequestInput creates a focused request input.
func NewRequestInput(s *styles.Styles) *RequestInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about your mail, calendar, files, sheets or docs..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	return &RequestInput{textinput: ti, styles: s, width: 60}
}

// Init starts the cursor blink.
func (r *RequestInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (r *RequestInput) Update(msg tea.Msg) (*RequestInput, tea.Cmd) {
	var cmd tea.Cmd
	r.textinput, cmd = r.textinput.Update(msg)
	return r, cmd
}

// View renders the label and input.
func (r *RequestInput) View() string {
	label := r.styles.UserLabel.Render("> ")
	field := r.styles.InputField.Render(r.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (r *RequestInput) Value() string {
	return r.textinput.Value()
}

// SetValue sets the input value.
func (r *RequestInput) SetValue(value string) {
	r.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (r *RequestInput) Focus() tea.Cmd {
	return r.textinput.Focus()
}

// Blur removes focus from the input.
func (r *RequestInput) Blur() {
	r.textinput.Blur()
}

// Focused returns whether the input is focused.
func (r *RequestInput) Focused() bool {
	return r.textinput.Focused()
}

// SetWidth sizes the field to the terminal, leaving room for the label
// and border.
func (r *RequestInput) SetWidth(width int) {
	r.width = width
	inner := width - 8
	if inner < minWidth {
		inner = minWidth
	}
	r.textinput.Width = inner
}

// Width returns the current width.
func (r *RequestInput) Width() int {
	return r.width
}

// Reset clears the input.
func (r *RequestInput) Reset() {
	r.textinput.Reset()
}
