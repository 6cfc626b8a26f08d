package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

func TestAsk_PrintsText(t *testing.T) {
	agent := &mockAgent{result: domain.Success("Email sent to bob@example.com")}
	setupTestServices(t, Services{Agent: agentReturning(agent)})

	out, err := executeCommand(t, "ask", "send", "bob", "a", "hello")

	require.NoError(t, err)
	assert.Contains(t, out, "Email sent to bob@example.com")
	assert.Equal(t, []string{"send bob a hello"}, agent.requests)
}

func TestAsk_PrintsJSON(t *testing.T) {
	agent := &mockAgent{result: domain.Success(map[string]any{"count": 2})}
	setupTestServices(t, Services{Agent: agentReturning(agent)})

	out, err := executeCommand(t, "ask", "--json", "how many unread emails")

	require.NoError(t, err)
	assert.Contains(t, out, `"status": "success"`)
	assert.Contains(t, out, `"count": 2`)
}

func TestAsk_ErrorResultFails(t *testing.T) {
	agent := &mockAgent{result: domain.Failure("unknown action %q", "archive")}
	setupTestServices(t, Services{Agent: agentReturning(agent)})

	out, err := executeCommand(t, "ask", "archive everything")

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, out, `Error: unknown action "archive"`)
}

func TestAsk_BlankRequest(t *testing.T) {
	agent := &mockAgent{}
	setupTestServices(t, Services{Agent: agentReturning(agent)})

	_, err := executeCommand(t, "ask", "   ")

	require.Error(t, err)
	assert.Empty(t, agent.requests)
}

func TestAsk_NoAgent(t *testing.T) {
	setupTestServices(t, Services{})

	_, err := executeCommand(t, "ask", "list my files")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent not configured")
}

func TestAsk_RequiresArgument(t *testing.T) {
	setupTestServices(t, Services{Agent: agentReturning(&mockAgent{})})

	_, err := executeCommand(t, "ask")

	assert.Error(t, err)
}
