package gmail

// WebURL returns the Gmail web link for a message ID.
func WebURL(messageID string) string {
	if messageID == "" {
		return ""
	}
	return "https://mail.google.com/mail/u/0/#all/" + messageID
}
