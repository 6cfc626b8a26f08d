// Package sheets implements the spreadsheet capability client on the
// Google Sheets API. Listing and deletion go through Drive.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	gdrive "github.com/custodia-labs/workspace-agent/internal/connectors/google/drive"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CapabilityClient = (*Client)(nil)

// Client manages spreadsheets and their cell values.
type Client struct {
	svc        *sheets.Service
	limiter    *google.Limiter
	files      *gdrive.Files
	extensions map[string]driven.ExtensionFunc
}

// New creates a spreadsheet client. The Drive handle serves List and Delete.
func New(svc *sheets.Service, driveSvc *drive.Service) *Client {
	c := &Client{
		svc:     svc,
		limiter: google.NewLimiter(domain.ServiceSpreadsheet),
		files:   gdrive.NewFiles(driveSvc, domain.ServiceSpreadsheet, gdrive.MimeTypeGoogleSheet),
	}
	c.extensions = map[string]driven.ExtensionFunc{
		"read_values":  c.ReadValues,
		"write_values": c.WriteValues,
	}
	return c
}

// Service returns domain.ServiceSpreadsheet.
func (c *Client) Service() domain.Service {
	return domain.ServiceSpreadsheet
}

// Spreadsheet is the agent-facing view of a spreadsheet.
type Spreadsheet struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Sheets []string `json:"sheets,omitempty"`
	Locale string   `json:"locale,omitempty"`
	Link   string   `json:"link,omitempty"`
}

func toSpreadsheet(s *sheets.Spreadsheet) Spreadsheet {
	out := Spreadsheet{ID: s.SpreadsheetId, Link: s.SpreadsheetUrl}
	if s.Properties != nil {
		out.Title = s.Properties.Title
		out.Locale = s.Properties.Locale
	}
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			out.Sheets = append(out.Sheets, sh.Properties.Title)
		}
	}
	return out
}

// List returns spreadsheets from Drive.
func (c *Client) List(ctx context.Context, opts driven.ListOptions) ([]any, error) {
	return c.files.List(ctx, opts)
}

// Get returns spreadsheet metadata and its sheet names.
func (c *Client) Get(ctx context.Context, id string) (any, error) {
	s, err := google.Call(ctx, c.limiter, domain.ServiceSpreadsheet, "get", func() (*sheets.Spreadsheet, error) {
		return c.svc.Spreadsheets.Get(id).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toSpreadsheet(s), nil
}

// Create makes a spreadsheet. "sheets" may list sheet names or
// objects with a "title".
func (c *Client) Create(ctx context.Context, details domain.Details) (any, error) {
	title := details.String("title", details.String("name", ""))
	if title == "" {
		return nil, fmt.Errorf("%w: missing title", domain.ErrInvalidInput)
	}

	body := &sheets.Spreadsheet{Properties: &sheets.SpreadsheetProperties{Title: title}}
	for _, name := range sheetTitles(details["sheets"]) {
		body.Sheets = append(body.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: name}})
	}

	created, err := google.Call(ctx, c.limiter, domain.ServiceSpreadsheet, "create", func() (*sheets.Spreadsheet, error) {
		return c.svc.Spreadsheets.Create(body).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toSpreadsheet(created), nil
}

func sheetTitles(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return domain.Details{"sheets": v}.StringSlice("sheets")
	}
	var out []string
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case map[string]any:
			if t, ok := s["title"].(string); ok && t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// Spreadsheet properties the update action may change, keyed by detail name.
var updatableProperties = map[string]string{
	"title":     "title",
	"locale":    "locale",
	"time_zone": "timeZone",
}

// Update changes spreadsheet properties (title, locale, time_zone).
func (c *Client) Update(ctx context.Context, id string, details domain.Details) (any, error) {
	props := &sheets.SpreadsheetProperties{
		Title:    details.String("title", ""),
		Locale:   details.String("locale", ""),
		TimeZone: details.String("time_zone", ""),
	}

	var fields []string
	for key, field := range updatableProperties {
		if details.String(key, "") != "" {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	sort.Strings(fields)

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSpreadsheetProperties: &sheets.UpdateSpreadsheetPropertiesRequest{
				Properties: props,
				Fields:     strings.Join(fields, ","),
			},
		}},
		IncludeSpreadsheetInResponse: true,
	}

	resp, err := google.Call(ctx, c.limiter, domain.ServiceSpreadsheet, "update",
		func() (*sheets.BatchUpdateSpreadsheetResponse, error) {
			return c.svc.Spreadsheets.BatchUpdate(id, req).Context(ctx).Do()
		})
	if err != nil {
		return nil, err
	}
	if resp.UpdatedSpreadsheet != nil {
		return toSpreadsheet(resp.UpdatedSpreadsheet), nil
	}
	return Spreadsheet{ID: id, Title: props.Title}, nil
}

// Delete removes the spreadsheet file from Drive.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.files.Delete(ctx, id)
}

// Extension returns "read_values" or "write_values".
func (c *Client) Extension(name string) (driven.ExtensionFunc, bool) {
	fn, ok := c.extensions[name]
	return fn, ok
}
