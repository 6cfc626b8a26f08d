// Package domain holds the types every other package speaks in: Service,
// Intent, Result, Conversation, Credential, AppSettings and the sentinel
// errors. It imports nothing outside the standard library.
package domain
