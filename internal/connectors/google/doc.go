// Package google provides shared infrastructure for the Google Workspace
// capability clients.
//
// The gmail, calendar, drive, sheets and docs packages build on:
//   - a TokenSource adapter bridging driven.CredentialProvider to oauth2
//   - service factories for each Google API
//   - translation of googleapi errors into *domain.RemoteError
//   - per-service rate limiting
//   - Decode, which maps free-form intent details onto typed inputs
//
// # Usage
//
//	ts := google.NewTokenSource(ctx, credentials)
//	svc, err := google.NewGmailService(ctx, ts)
//
// # OAuth2 Scopes
//
// The agent requests these scopes at login:
//   - https://www.googleapis.com/auth/gmail.modify
//   - https://www.googleapis.com/auth/calendar
//   - https://www.googleapis.com/auth/drive
//   - https://www.googleapis.com/auth/spreadsheets
//   - https://www.googleapis.com/auth/documents
package google
