// Package oauth runs the installed-app side of the Google OAuth flow: a
// loopback server that receives the authorization code and the browser
// helper that opens the consent page.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"
)

// CallbackPath is the path the consent page redirects to.
const CallbackPath = "/"

// ErrStateMismatch is returned when the callback state does not match the
// state sent with the consent URL.
var ErrStateMismatch = errors.New("oauth: state mismatch")

// ErrNoCode is returned when the callback carries neither a code nor an error.
var ErrNoCode = errors.New("oauth: no authorization code received")

// callbackResult is the single outcome a callback server produces.
type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives the OAuth redirect on a loopback address.
// Only the first callback is delivered; later ones are answered but dropped.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	results       chan callbackResult
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server for the given port.
// Port 0 picks a free port when the server starts.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		results:       make(chan callbackResult, 1),
	}
}

// Start binds 127.0.0.1 and serves callbacks in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("oauth: callback server already started")
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CallbackPath+"{$}", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(callbackResult{err: err})
		}
	}()

	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := query.Get("error"); errParam != "" {
		desc := query.Get("error_description")
		if desc == "" {
			desc = errParam
		}
		s.deliver(callbackResult{err: fmt.Errorf("oauth error: %s: %s", errParam, desc)})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, callbackPage("Authorization failed", desc))
		return
	}

	if query.Get("state") != s.state() {
		s.deliver(callbackResult{err: ErrStateMismatch})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, callbackPage("Authorization failed", "The request state did not match. Please try again."))
		return
	}

	code := query.Get("code")
	if code == "" {
		s.deliver(callbackResult{err: ErrNoCode})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, callbackPage("Authorization failed", "No authorization code was received."))
		return
	}

	s.deliver(callbackResult{code: code})
	_, _ = fmt.Fprint(w, callbackPage("Authorization successful", "You can close this window and return to the terminal."))
}

func (s *CallbackServer) state() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expectedState
}

// setState replaces the expected state once it is known.
func (s *CallbackServer) setState(state string) {
	s.mu.Lock()
	s.expectedState = state
	s.mu.Unlock()
}

// deliver records the first outcome and drops the rest.
func (s *CallbackServer) deliver(res callbackResult) {
	select {
	case s.results <- res:
	default:
	}
}

// WaitForCode blocks until a callback arrives or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case res := <-s.results:
		return res.code, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("timeout waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server. It is safe to call more than once.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI to register with the consent URL.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.Port(), CallbackPath)
}

//nolint:misspell,lll // CSS properties use American spelling
func callbackPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>wsagent - Google sign-in</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #F8F9FA; }
        .card { text-align: center; background: white; padding: 40px 56px; border-radius: 12px; border: 1px solid #DADCE0; }
        h1 { color: #202124; margin: 0 0 8px 0; font-size: 22px; font-weight: 600; }
        p { color: #5F6368; margin: 0; font-size: 15px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
