package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// Message is the agent-facing view of a Gmail message.
type Message struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"thread_id,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Date     string   `json:"date,omitempty"`
	Body     string   `json:"body,omitempty"`
	Link     string   `json:"link,omitempty"`
}

// toMessage converts a Gmail API message. The body is only present when
// the message was fetched with the "full" format.
func toMessage(msg *gmail.Message) Message {
	out := Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Labels:   msg.LabelIds,
		Snippet:  msg.Snippet,
		Link:     WebURL(msg.Id),
	}
	if msg.Payload == nil {
		return out
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			out.From = h.Value
		case "to":
			out.To = h.Value
		case "subject":
			out.Subject = h.Value
		case "date":
			out.Date = h.Value
		}
	}
	out.Body = partBody(msg.Payload, "text/plain")
	if out.Body == "" {
		out.Body = htmlToText(partBody(msg.Payload, "text/html"))
	}
	return out
}

// partBody returns the first part of the given media type, searching depth first.
func partBody(part *gmail.MessagePart, mediaType string) string {
	if part == nil {
		return ""
	}
	if strings.HasPrefix(part.MimeType, mediaType) && part.Body != nil && part.Body.Data != "" {
		data, err := decodeBase64URL(part.Body.Data)
		if err != nil {
			return ""
		}
		return string(data)
	}
	for _, p := range part.Parts {
		if body := partBody(p, mediaType); body != "" {
			return body
		}
	}
	return ""
}

// decodeBase64URL accepts padded and unpadded base64url.
func decodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

// outgoing is an email to be sent.
type outgoing struct {
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	Body     string
	HTMLBody string
}

// raw encodes the message as base64url RFC 2822 for messages.send.
// With an HTML body the message becomes multipart/alternative.
func (o outgoing) raw() (string, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "To", strings.Join(o.To, ", "))
	if len(o.Cc) > 0 {
		writeHeader(&buf, "Cc", strings.Join(o.Cc, ", "))
	}
	if len(o.Bcc) > 0 {
		writeHeader(&buf, "Bcc", strings.Join(o.Bcc, ", "))
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", o.Subject))
	writeHeader(&buf, "MIME-Version", "1.0")

	if o.HTMLBody == "" {
		writeHeader(&buf, "Content-Type", `text/plain; charset="UTF-8"`)
		buf.WriteString("\r\n")
		buf.WriteString(o.Body)
		return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
	}

	mw := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")

	for _, part := range []struct{ contentType, body string }{
		{`text/plain; charset="UTF-8"`, o.Body},
		{`text/html; charset="UTF-8"`, o.HTMLBody},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return "", fmt.Errorf("create part: %w", err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return "", fmt.Errorf("write part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
