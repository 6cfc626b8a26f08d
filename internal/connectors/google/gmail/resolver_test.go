package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebURL(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "message ID converts to web URL",
			id:   "18abc123def456",
			want: "https://mail.google.com/mail/u/0/#all/18abc123def456",
		},
		{
			name: "empty ID returns empty",
			id:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WebURL(tt.id))
		})
	}
}
