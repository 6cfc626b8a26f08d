package drive

import (
	"context"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

const defaultOrderBy = "modifiedTime desc"

// Files lists and deletes Drive files on behalf of a service whose own
// API has no such calls (Sheets and Docs).
type Files struct {
	svc      *drive.Service
	limiter  *google.Limiter
	service  domain.Service
	mimeType string
}

// NewFiles scopes Drive file operations to one MIME type. Errors are
// reported against the given service.
func NewFiles(svc *drive.Service, service domain.Service, mimeType string) *Files {
	return &Files{
		svc:      svc,
		limiter:  google.NewLimiter(domain.ServiceStorage),
		service:  service,
		mimeType: mimeType,
	}
}

// List returns matching files, newest first unless "order_by" is given.
func (f *Files) List(ctx context.Context, opts driven.ListOptions) ([]any, error) {
	mimeType := f.mimeType
	if mimeType == "" {
		mimeType = opts.Filters.String("mime_type", "")
	}

	call := f.svc.Files.List().
		Q(buildQuery(opts.Query, mimeType)).
		OrderBy(opts.Filters.String("order_by", defaultOrderBy)).
		Fields(listFields)
	if opts.MaxResults > 0 {
		call = call.PageSize(int64(opts.MaxResults))
	}

	resp, err := google.Call(ctx, f.limiter, f.service, "list", func() (*drive.FileList, error) {
		return call.Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(resp.Files))
	for _, file := range resp.Files {
		items = append(items, ToFile(file))
	}
	return items, nil
}

// Delete permanently deletes a file.
func (f *Files) Delete(ctx context.Context, id string) error {
	_, err := google.Call(ctx, f.limiter, f.service, "delete", func() (struct{}, error) {
		return struct{}{}, f.svc.Files.Delete(id).Context(ctx).Do()
	})
	return err
}
