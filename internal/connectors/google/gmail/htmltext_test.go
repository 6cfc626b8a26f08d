package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "hello", "hello"},
		{"inline tags", "<b>Hi</b> <i>there</i>", "Hi there"},
		{"paragraphs", "<p>First</p><p>Second</p>", "First\nSecond"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"entities", "Tom &amp; Jerry&nbsp;&lt;3", "Tom & Jerry <3"},
		{"drops style and script", "<style>p{color:red}</style><script>x()</script><p>Body</p>", "Body"},
		{"drops head", "<html><head><title>T</title></head><body>Text</body></html>", "Text"},
		{"drops comments", "a<!-- hidden -->b", "ab"},
		{"list items", "<ul><li>one</li><li>two</li></ul>", "one\ntwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, htmlToText(tt.in))
		})
	}
}

func TestToMessage_HTMLOnlyBody(t *testing.T) {
	data := base64.URLEncoding.EncodeToString([]byte("<div>Meeting moved to <b>3pm</b></div>"))
	msg := &gmail.Message{
		Id: "m1",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: data}},
			},
		},
	}

	assert.Equal(t, "Meeting moved to 3pm", toMessage(msg).Body)
}
