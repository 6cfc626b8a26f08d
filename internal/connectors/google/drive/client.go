// Package drive implements the storage capability client on the Google
// Drive API, including file upload and download.
package drive

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CapabilityClient = (*Client)(nil)

// Client manages files in the user's Drive.
type Client struct {
	svc        *drive.Service
	limiter    *google.Limiter
	files      *Files
	extensions map[string]driven.ExtensionFunc
}

// New creates a storage client.
func New(svc *drive.Service) *Client {
	c := &Client{
		svc:     svc,
		limiter: google.NewLimiter(domain.ServiceStorage),
		files:   NewFiles(svc, domain.ServiceStorage, ""),
	}
	c.extensions = map[string]driven.ExtensionFunc{
		"upload":   c.Upload,
		"download": c.Download,
	}
	return c
}

// Service returns domain.ServiceStorage.
func (c *Client) Service() domain.Service {
	return domain.ServiceStorage
}

// List searches files. Filters: "mime_type", "order_by".
func (c *Client) List(ctx context.Context, opts driven.ListOptions) ([]any, error) {
	return c.files.List(ctx, opts)
}

// Get returns file metadata.
func (c *Client) Get(ctx context.Context, id string) (any, error) {
	file, err := c.metadata(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToFile(file), nil
}

func (c *Client) metadata(ctx context.Context, id string) (*drive.File, error) {
	return google.Call(ctx, c.limiter, domain.ServiceStorage, "get", func() (*drive.File, error) {
		return c.svc.Files.Get(id).Fields(fileFields).Context(ctx).Do()
	})
}

type createInput struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	ParentID string `json:"parent_id"`
}

// Create makes an empty file, a Google Doc unless mime_type says otherwise.
func (c *Client) Create(ctx context.Context, details domain.Details) (any, error) {
	var in createInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if in.Name == "" {
		in.Name = details.String("title", "")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: missing name", domain.ErrInvalidInput)
	}
	if in.MimeType == "" {
		in.MimeType = MimeTypeGoogleDoc
	}

	meta := &drive.File{Name: in.Name, MimeType: in.MimeType}
	if in.ParentID != "" {
		meta.Parents = []string{in.ParentID}
	}

	created, err := google.Call(ctx, c.limiter, domain.ServiceStorage, "create", func() (*drive.File, error) {
		return c.svc.Files.Create(meta).Fields(fileFields).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return ToFile(created), nil
}

type updateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
}

// Update renames, describes or moves a file.
func (c *Client) Update(ctx context.Context, id string, details domain.Details) (any, error) {
	var in updateInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if in.Name == "" && in.Description == "" && in.ParentID == "" {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	call := c.svc.Files.Update(id, &drive.File{Name: in.Name, Description: in.Description}).Fields(fileFields)
	if in.ParentID != "" {
		call = call.AddParents(in.ParentID)
	}

	updated, err := google.Call(ctx, c.limiter, domain.ServiceStorage, "update", func() (*drive.File, error) {
		return call.Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return ToFile(updated), nil
}

// Delete permanently deletes a file.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.files.Delete(ctx, id)
}

// Extension returns "upload" or "download".
func (c *Client) Extension(name string) (driven.ExtensionFunc, bool) {
	fn, ok := c.extensions[name]
	return fn, ok
}
