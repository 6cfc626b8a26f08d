package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxInlineSize caps content returned inline by download (5MB).
const MaxInlineSize = 5 * 1024 * 1024

// Field selections for files.list and files.get.
const (
	listFields = "files(id, name, mimeType, modifiedTime, owners, size, webViewLink)"
	fileFields = "id, name, mimeType, modifiedTime, owners, size, webViewLink, parents, description"
)

// File is the agent-facing view of a Drive file.
type File struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mime_type,omitempty"`
	ModifiedTime string   `json:"modified_time,omitempty"`
	Size         int64    `json:"size,omitempty"`
	Owners       []string `json:"owners,omitempty"`
	Description  string   `json:"description,omitempty"`
	Link         string   `json:"link,omitempty"`
}

// ToFile converts a Drive API file.
func ToFile(f *drive.File) File {
	out := File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
		Description:  f.Description,
		Link:         WebURL(f),
	}
	for _, o := range f.Owners {
		if o.EmailAddress != "" {
			out.Owners = append(out.Owners, o.EmailAddress)
		} else if o.DisplayName != "" {
			out.Owners = append(out.Owners, o.DisplayName)
		}
	}
	return out
}

// exportFormat returns the export MIME type for Google Workspace files.
// Regular files return "".
func exportFormat(mimeType string) string {
	switch mimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return ExportMimeText
	case MimeTypeGoogleSheet:
		return ExportMimeCSV
	default:
		return ""
	}
}

// openContent opens a file's bytes, exporting Google Workspace files.
// The returned MIME type is the type of the bytes.
func openContent(ctx context.Context, svc *drive.Service, file *drive.File) (io.ReadCloser, string, error) {
	var (
		resp     *http.Response
		err      error
		mimeType = file.MimeType
	)
	if export := exportFormat(file.MimeType); export != "" {
		resp, err = svc.Files.Export(file.Id, export).Context(ctx).Download()
		mimeType = export
	} else {
		resp, err = svc.Files.Get(file.Id).Context(ctx).Download()
	}
	if err != nil {
		return nil, "", err
	}
	return resp.Body, mimeType, nil
}

// isTextFile checks if a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	textTypes := []string{
		"application/json",
		"application/xml",
		"application/javascript",
		"application/x-yaml",
		"application/x-sh",
		"application/sql",
	}

	for _, t := range textTypes {
		if mimeType == t {
			return true
		}
	}

	return false
}

// buildQuery turns a model query into Drive query syntax. Plain words
// become a name search; anything already using Drive operators is kept.
func buildQuery(query, mimeType string) string {
	clauses := []string{"trashed = false"}
	if mimeType != "" {
		clauses = append(clauses, fmt.Sprintf("mimeType = '%s'", escape(mimeType)))
	}
	if q := strings.TrimSpace(query); q != "" {
		if isDriveQuery(q) {
			clauses = append(clauses, "("+q+")")
		} else {
			clauses = append(clauses, fmt.Sprintf("name contains '%s'", escape(q)))
		}
	}
	return strings.Join(clauses, " and ")
}

func isDriveQuery(q string) bool {
	for _, op := range []string{"=", " contains ", " in ", "<", ">", " has "} {
		if strings.Contains(q, op) {
			return true
		}
	}
	return false
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
