package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driving/render"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// maxEventBytes caps the request body read from Slack.
const maxEventBytes = 1 << 20

// retryHeader is set by Slack when it redelivers an event.
const retryHeader = "X-Slack-Retry-Num"

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	if s.cfg.SigningSecret != "" {
		if err := verify(r.Header, body, s.cfg.SigningSecret); err != nil {
			logger.Warn("slack signature rejected: %v", err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Debug("unparseable slack event: %v", err)
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "invalid challenge", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"challenge": challenge.Challenge})
		return

	case slackevents.CallbackEvent:
		// Slack redelivers when an ack is slow; the original is already
		// being handled.
		if r.Header.Get(retryHeader) == "" {
			s.handleCallback(event.InnerEvent)
		}
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// handleCallback dispatches human messages. Bot messages and message
// subtypes (edits, joins, the bridge's own replies) are ignored to avoid
// reply loops.
func (s *Server) handleCallback(inner slackevents.EventsAPIInnerEvent) {
	msg, ok := inner.Data.(*slackevents.MessageEvent)
	if !ok {
		logger.Debug("ignoring slack event type %s", inner.Type)
		return
	}
	if msg.BotID != "" || msg.SubType != "" || msg.User == "" {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" || msg.Channel == "" {
		return
	}

	s.dispatch(msg.Channel, text)
}

// dispatch runs the agent in the background so Slack gets its ack within
// the three second window.
func (s *Server) dispatch(channel, text string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// The budget starts once the request reaches the agent, not while
		// it queues behind another one.
		s.mu.Lock()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		result := s.agent.Handle(ctx, text)
		s.mu.Unlock()

		if err := s.poster.PostMessage(ctx, channel, render.Text(result)); err != nil {
			logger.Error("posting reply: %v", err)
		}
	}()
}

func verify(header http.Header, body []byte, secret string) error {
	sv, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
