package docs

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// Document is the agent-facing view of a Google Doc.
type Document struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Text       string `json:"text,omitempty"`
	RevisionID string `json:"revision_id,omitempty"`
	Link       string `json:"link,omitempty"`
}

func toDocument(doc *docs.Document) Document {
	return Document{
		ID:         doc.DocumentId,
		Title:      doc.Title,
		Text:       plainText(doc),
		RevisionID: doc.RevisionId,
		Link:       "https://docs.google.com/document/d/" + doc.DocumentId + "/edit",
	}
}

// plainText concatenates the text runs of the body's paragraphs.
func plainText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}
	var b strings.Builder
	for _, el := range doc.Body.Content {
		if el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe.TextRun != nil {
				b.WriteString(pe.TextRun.Content)
			}
		}
	}
	return b.String()
}

// endIndex returns the index just before the body's final newline, which
// is where appended text goes. Empty documents yield 1.
func endIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	end := doc.Body.Content[len(doc.Body.Content)-1].EndIndex - 1
	if end < 1 {
		return 1
	}
	return end
}

type appendInput struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Index      int64  `json:"index"`
}

// AppendText inserts text at "index", or at the end of the document.
// If the end cannot be determined the text goes to the start.
func (c *Client) AppendText(ctx context.Context, details domain.Details) (any, error) {
	var in appendInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if in.DocumentID == "" {
		in.DocumentID = details.String("id", "")
	}
	if in.DocumentID == "" {
		return nil, fmt.Errorf("%w: missing document_id", domain.ErrInvalidInput)
	}
	if in.Text == "" {
		return nil, fmt.Errorf("%w: missing text", domain.ErrInvalidInput)
	}

	if in.Index <= 0 {
		doc, err := c.document(ctx, in.DocumentID)
		if err != nil {
			in.Index = 1
		} else {
			in.Index = endIndex(doc)
		}
	}

	return c.batchUpdate(ctx, in.DocumentID, []*docs.Request{insertText(in.Text, in.Index)})
}
