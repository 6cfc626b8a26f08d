package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/render"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/tui/styles"
)

// chromeHeight is the number of rows used by header, input and status bar.
const chromeHeight = 6

// exchange is one request and the agent's reply.
type exchange struct {
	request string
	reply   string
	ok      bool
	done    bool
}

// App is the chat TUI following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input      *input.RequestInput
	statusBar  *status.Bar
	transcript viewport.Model
	spinner    spinner.Model

	exchanges []exchange
	busy      bool
	showHelp  bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewRequestInput(s),
		statusBar:  status.NewBar(s, km),
		transcript: viewport.New(80, 20),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Muted)),
	}, nil
}

// WithContext sets the context passed to the agent.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("wsagent"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ResultReceived:
		a.finish(msg)
		return a, nil

	case messages.ConversationReset:
		a.exchanges = nil
		a.statusBar.Clear()
		a.refreshTranscript()
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refreshTranscript()
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case keymap.Matches(k, a.keymap.ScrollUp), keymap.Matches(k, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd

	case keymap.Matches(k, a.keymap.Reset):
		if a.busy {
			return a, nil
		}
		return a, a.resetConversation()

	case keymap.Matches(k, a.keymap.Send):
		return a, a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed request to the agent. Requests typed while the
// agent is busy are kept in the input.
func (a *App) submit() tea.Cmd {
	request := strings.TrimSpace(a.input.Value())
	if request == "" || a.busy {
		return nil
	}

	a.input.Reset()
	a.busy = true
	a.statusBar.SetState(status.StateThinking)
	a.exchanges = append(a.exchanges, exchange{request: request})
	a.refreshTranscript()

	return tea.Batch(a.spinner.Tick, a.handle(request))
}

// handle runs the agent off the UI goroutine.
func (a *App) handle(request string) tea.Cmd {
	agent := a.ports.Agent
	ctx := a.ctx
	return func() tea.Msg {
		started := time.Now()
		result := agent.Handle(ctx, request)
		return messages.ResultReceived{Request: request, Result: result, Elapsed: time.Since(started)}
	}
}

func (a *App) resetConversation() tea.Cmd {
	agent := a.ports.Agent
	return func() tea.Msg {
		agent.Reset()
		return messages.ConversationReset{}
	}
}

func (a *App) finish(msg messages.ResultReceived) {
	a.busy = false
	a.statusBar.RecordTurn(msg.Elapsed)
	if msg.Result.OK() {
		a.statusBar.SetState(status.StateReady)
	} else {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Result.Message)
	}

	if n := len(a.exchanges); n > 0 && !a.exchanges[n-1].done {
		a.exchanges[n-1].reply = render.Text(msg.Result)
		a.exchanges[n-1].ok = msg.Result.OK()
		a.exchanges[n-1].done = true
	}
	a.refreshTranscript()
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.statusBar.SetWidth(width)
	a.transcript.Width = width
	a.transcript.Height = max(height-chromeHeight, 1)
	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	a.transcript.SetContent(a.renderTranscript())
	a.transcript.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.exchanges) == 0 {
		return a.styles.Muted.Render("Try \"list my unread emails\" or \"schedule a call with ana tomorrow at 10\".")
	}

	replyWidth := max(a.width-4, 20)
	var b strings.Builder
	for i, ex := range a.exchanges {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.styles.UserLabel.Render("you: "))
		b.WriteString(a.styles.Normal.Render(ex.request))
		b.WriteString("\n")

		b.WriteString(a.styles.AgentLabel.Render("agent:"))
		b.WriteString("\n")
		switch {
		case !ex.done:
			b.WriteString(a.styles.Reply.Render(a.spinner.View() + " working"))
		case ex.ok:
			b.WriteString(a.styles.Reply.Width(replyWidth).Render(ex.reply))
		default:
			b.WriteString(a.styles.Error.PaddingLeft(2).Width(replyWidth).Render(ex.reply))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("wsagent")
	if a.ports.ModelName != "" {
		header += a.styles.Muted.Render("  " + a.ports.ModelName)
	}

	body := a.transcript.View()
	if a.showHelp {
		body = a.renderHelp()
	}

	return strings.Join([]string{
		header,
		body,
		a.input.View(),
		a.statusBar.View(),
	}, "\n")
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
	}
	return a.styles.Help.Render(b.String())
}

// Exchanges returns the number of requests in the transcript.
func (a *App) Exchanges() int {
	return len(a.exchanges)
}

// Busy reports whether a request is in flight.
func (a *App) Busy() bool {
	return a.busy
}
