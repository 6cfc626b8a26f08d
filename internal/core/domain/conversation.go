package domain

// Role identifies the author of a conversation message.
type Role string

// Message roles understood by chat-completion models.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultHistorySize is the number of messages kept in a conversation.
const DefaultHistorySize = 10

// Message is a single turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is a bounded, ordered message history.
// Appending beyond the limit evicts the oldest messages.
// It is not safe for concurrent use.
type Conversation struct {
	limit    int
	messages []Message
}

// NewConversation creates a history holding at most limit messages.
// A non-positive limit uses DefaultHistorySize.
func NewConversation(limit int) *Conversation {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &Conversation{limit: limit}
}

// Append adds a message and evicts from the front until within the limit.
func (c *Conversation) Append(role Role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
	if over := len(c.messages) - c.limit; over > 0 {
		c.messages = append(c.messages[:0:0], c.messages[over:]...)
	}
}

// Messages returns a copy of the history, oldest first.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of stored messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Limit returns the maximum number of stored messages.
func (c *Conversation) Limit() int {
	return c.limit
}

// Clear empties the history.
func (c *Conversation) Clear() {
	c.messages = nil
}
