package connectors

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/connectors/google/calendar"
	"github.com/custodia-labs/workspace-agent/internal/connectors/google/docs"
	"github.com/custodia-labs/workspace-agent/internal/connectors/google/drive"
	"github.com/custodia-labs/workspace-agent/internal/connectors/google/gmail"
	"github.com/custodia-labs/workspace-agent/internal/connectors/google/sheets"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// NewWorkspaceClients creates one capability client per workspace service.
// Options are passed to every Google API service.
func NewWorkspaceClients(
	ctx context.Context, credentials driven.CredentialProvider, opts ...option.ClientOption,
) ([]driven.CapabilityClient, error) {
	if credentials == nil {
		return nil, fmt.Errorf("credential provider is required")
	}

	svcs, err := google.NewServices(ctx, google.NewTokenSource(ctx, credentials), opts...)
	if err != nil {
		return nil, err
	}

	return []driven.CapabilityClient{
		gmail.New(svcs.Gmail),
		calendar.New(svcs.Calendar),
		drive.New(svcs.Drive),
		sheets.New(svcs.Sheets, svcs.Drive),
		docs.New(svcs.Docs, svcs.Drive),
	}, nil
}
