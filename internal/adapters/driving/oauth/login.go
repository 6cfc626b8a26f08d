package oauth

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// DefaultLoginTimeout bounds how long Login waits for the consent callback.
const DefaultLoginTimeout = 5 * time.Minute

// LoginOptions configures an interactive login.
type LoginOptions struct {
	// Port for the loopback callback server. 0 picks a free port.
	Port int

	// Timeout for the user to finish consent. Defaults to DefaultLoginTimeout.
	Timeout time.Duration

	// Open launches the consent URL. Defaults to OpenBrowser.
	Open func(url string) error

	// Out receives user-facing instructions.
	Out io.Writer
}

// Login runs the installed-app flow end to end: start the callback server,
// send the user to the consent page, wait for the code and store the token.
func Login(ctx context.Context, auth driving.AuthService, opts LoginOptions) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLoginTimeout
	}
	if opts.Open == nil {
		opts.Open = OpenBrowser
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	// The state is only known after BeginLogin, which needs the redirect
	// URI, so bind the port first and fill the state in afterwards.
	server := NewCallbackServer(opts.Port, "")
	if err := server.Start(); err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck

	req, err := auth.BeginLogin(server.RedirectURI())
	if err != nil {
		return err
	}
	server.setState(req.State)

	fmt.Fprintln(opts.Out, "Opening your browser to sign in with Google...")
	fmt.Fprintf(opts.Out, "If it does not open, visit:\n\n  %s\n\n", req.URL)
	if err := opts.Open(req.URL); err != nil {
		logger.Debug("open browser: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	code, err := server.WaitForCode(waitCtx)
	if err != nil {
		return err
	}

	if err := auth.CompleteLogin(ctx, req, code); err != nil {
		return err
	}
	fmt.Fprintln(opts.Out, "Signed in. Token saved.")
	return nil
}
