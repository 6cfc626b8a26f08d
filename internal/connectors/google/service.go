package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Scopes are the OAuth scopes the workspace clients need.
var Scopes = []string{
	gmail.GmailModifyScope,
	calendar.CalendarScope,
	drive.DriveScope,
	sheets.SpreadsheetsScope,
	docs.DocumentsScope,
	"https://www.googleapis.com/auth/userinfo.email",
}

// UserInfo contains the user's basic profile information from Google.
type UserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Services holds one handle per Google API used by the agent.
type Services struct {
	Gmail    *gmail.Service
	Calendar *calendar.Service
	Drive    *drive.Service
	Sheets   *sheets.Service
	Docs     *docs.Service
}

// NewServices creates every API handle with the same token source.
// Extra options are appended, which lets tests point the clients at a fake endpoint.
func NewServices(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Services, error) {
	var (
		s   Services
		err error
	)
	if s.Gmail, err = NewGmailService(ctx, ts, opts...); err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	if s.Calendar, err = NewCalendarService(ctx, ts, opts...); err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	if s.Drive, err = NewDriveService(ctx, ts, opts...); err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	if s.Sheets, err = NewSheetsService(ctx, ts, opts...); err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if s.Docs, err = NewDocsService(ctx, ts, opts...); err != nil {
		return nil, fmt.Errorf("docs service: %w", err)
	}
	return &s, nil
}

// NewGmailService creates a Gmail API service using the provided TokenSource.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*gmail.Service, error) {
	return gmail.NewService(ctx, withToken(ts, opts)...)
}

// NewDriveService creates a Google Drive API service using the provided TokenSource.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, withToken(ts, opts)...)
}

// NewCalendarService creates a Google Calendar API service using the provided TokenSource.
func NewCalendarService(
	ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption,
) (*calendar.Service, error) {
	return calendar.NewService(ctx, withToken(ts, opts)...)
}

// NewSheetsService creates a Google Sheets API service using the provided TokenSource.
func NewSheetsService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*sheets.Service, error) {
	return sheets.NewService(ctx, withToken(ts, opts)...)
}

// NewDocsService creates a Google Docs API service using the provided TokenSource.
func NewDocsService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*docs.Service, error) {
	return docs.NewService(ctx, withToken(ts, opts)...)
}

func withToken(ts oauth2.TokenSource, opts []option.ClientOption) []option.ClientOption {
	all := make([]option.ClientOption, 0, len(opts)+1)
	if ts != nil {
		all = append(all, option.WithTokenSource(ts))
	}
	return append(all, opts...)
}

// GetUserInfo fetches the user's profile information using an access token.
// Used by `auth status` to show which account is connected.
func GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	return getUserInfo(ctx, http.DefaultClient, userInfoURL, accessToken)
}

func getUserInfo(ctx context.Context, client *http.Client, url, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &userInfo, nil
}
