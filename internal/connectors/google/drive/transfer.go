package drive

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

type uploadInput struct {
	LocalPath string `json:"local_path"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	ParentID  string `json:"parent_id"`
}

// Upload sends a local file to Drive. The name defaults to the file's base name.
func (c *Client) Upload(ctx context.Context, details domain.Details) (any, error) {
	var in uploadInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if in.LocalPath == "" {
		return nil, fmt.Errorf("%w: missing local_path", domain.ErrInvalidInput)
	}

	f, err := os.Open(expandHome(in.LocalPath))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in.LocalPath, err)
	}
	defer f.Close()

	meta := &drive.File{Name: in.Name}
	if meta.Name == "" {
		meta.Name = filepath.Base(in.LocalPath)
	}
	if in.ParentID != "" {
		meta.Parents = []string{in.ParentID}
	}

	var media []googleapi.MediaOption
	if in.MimeType != "" {
		media = append(media, googleapi.ContentType(in.MimeType))
	}

	uploaded, err := google.Call(ctx, c.limiter, domain.ServiceStorage, "upload", func() (*drive.File, error) {
		return c.svc.Files.Create(meta).Media(f, media...).Fields(fileFields).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return ToFile(uploaded), nil
}

type downloadInput struct {
	FileID    string `json:"file_id"`
	LocalPath string `json:"local_path"`
}

// Download is the result of a download. Content is set when no local
// path was given; binary content is base64 encoded.
type Download struct {
	FileID    string `json:"file_id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	LocalPath string `json:"local_path,omitempty"`
	Bytes     int64  `json:"bytes"`
	Content   string `json:"content,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Download fetches a file's content, exporting Google Workspace files to
// text or CSV. With local_path the content is written to disk.
func (c *Client) Download(ctx context.Context, details domain.Details) (any, error) {
	var in downloadInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if in.FileID == "" {
		in.FileID = details.String("id", "")
	}
	if in.FileID == "" {
		return nil, fmt.Errorf("%w: missing file_id", domain.ErrInvalidInput)
	}

	file, err := c.metadata(ctx, in.FileID)
	if err != nil {
		return nil, err
	}
	if file.MimeType == MimeTypeFolder {
		return nil, fmt.Errorf("%w: %s is a folder", domain.ErrInvalidInput, file.Name)
	}

	res, err := google.Call(ctx, c.limiter, domain.ServiceStorage, "download", func() (content, error) {
		body, mimeType, err := openContent(ctx, c.svc, file)
		return content{body: body, mimeType: mimeType}, err
	})
	if err != nil {
		return nil, err
	}
	defer res.body.Close()
	body, mimeType := res.body, res.mimeType

	out := Download{FileID: file.Id, Name: file.Name, MimeType: mimeType}

	if in.LocalPath != "" {
		out.LocalPath = expandHome(in.LocalPath)
		if out.Bytes, err = writeFile(out.LocalPath, body); err != nil {
			return nil, err
		}
		return out, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxInlineSize+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if len(data) > MaxInlineSize {
		data, out.Truncated = data[:MaxInlineSize], true
	}
	out.Bytes = int64(len(data))
	if isTextFile(mimeType) {
		out.Content = string(bytes.ToValidUTF8(data, nil))
	} else {
		out.Content = base64.StdEncoding.EncodeToString(data)
		out.Encoding = "base64"
	}
	return out, nil
}

type content struct {
	body     io.ReadCloser
	mimeType string
}

func writeFile(path string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
