// Package calendar implements the calendar capability client on the
// Google Calendar API. All operations target the primary calendar.
package calendar

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CapabilityClient = (*Client)(nil)

const primaryCalendar = "primary"

// Client manages events on the user's primary calendar.
type Client struct {
	svc        *calendar.Service
	limiter    *google.Limiter
	calendarID string
	now        func() time.Time
}

// New creates a calendar client.
func New(svc *calendar.Service) *Client {
	return &Client{
		svc:        svc,
		limiter:    google.NewLimiter(domain.ServiceCalendar),
		calendarID: primaryCalendar,
		now:        time.Now,
	}
}

// Service returns domain.ServiceCalendar.
func (c *Client) Service() domain.Service {
	return domain.ServiceCalendar
}

type eventInput struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TimeZone    string `json:"time_zone"`
}

// Create inserts an event. Attendees are invited by email.
func (c *Client) Create(ctx context.Context, details domain.Details) (any, error) {
	var in eventInput
	if err := google.Decode(details.Without("attendees"), &in); err != nil {
		return nil, err
	}
	if in.Summary == "" {
		in.Summary = details.String("title", "")
	}
	if in.Summary == "" {
		return nil, fmt.Errorf("%w: missing summary", domain.ErrInvalidInput)
	}

	start, end, err := eventWindow(in.StartTime, in.EndTime, in.TimeZone, c.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       start,
		End:         end,
	}
	if emails := details.StringSlice("attendees"); len(emails) > 0 {
		event.Attendees = toAttendees(emails)
	}

	created, err := google.Call(ctx, c.limiter, domain.ServiceCalendar, "insert", func() (*calendar.Event, error) {
		return c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toEvent(created), nil
}

// List returns events in start order. Without bounds it lists upcoming events.
func (c *Client) List(ctx context.Context, opts driven.ListOptions) ([]any, error) {
	call := c.svc.Events.List(c.calendarID).SingleEvents(true).OrderBy("startTime")
	if opts.MaxResults > 0 {
		call = call.MaxResults(int64(opts.MaxResults))
	}
	if opts.Query != "" {
		call = call.Q(opts.Query)
	}

	timeMin := opts.Filters.String("time_min", "")
	timeMax := opts.Filters.String("time_max", "")
	if timeMin == "" && timeMax == "" {
		timeMin = c.now().Format(time.RFC3339)
	}
	if timeMin != "" {
		call = call.TimeMin(timeMin)
	}
	if timeMax != "" {
		call = call.TimeMax(timeMax)
	}

	resp, err := google.Call(ctx, c.limiter, domain.ServiceCalendar, "list", func() (*calendar.Events, error) {
		return call.Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(resp.Items))
	for _, e := range resp.Items {
		items = append(items, toEvent(e))
	}
	return items, nil
}

// Get returns a single event.
func (c *Client) Get(ctx context.Context, id string) (any, error) {
	event, err := google.Call(ctx, c.limiter, domain.ServiceCalendar, "get", func() (*calendar.Event, error) {
		return c.svc.Events.Get(c.calendarID, id).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toEvent(event), nil
}

// Update patches the fields present in details and leaves the rest untouched.
func (c *Client) Update(ctx context.Context, id string, details domain.Details) (any, error) {
	var in eventInput
	if err := google.Decode(details.Without("attendees"), &in); err != nil {
		return nil, err
	}

	patch := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
	}
	changed := in.Summary != "" || in.Description != "" || in.Location != ""

	if in.StartTime != "" {
		start, _, err := parseWhen(in.StartTime, in.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("%w: start_time: %v", domain.ErrInvalidInput, err)
		}
		patch.Start, changed = start, true
	}
	if in.EndTime != "" {
		end, _, err := parseWhen(in.EndTime, in.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("%w: end_time: %v", domain.ErrInvalidInput, err)
		}
		patch.End, changed = end, true
	}
	if emails := details.StringSlice("attendees"); len(emails) > 0 {
		patch.Attendees, changed = toAttendees(emails), true
	}
	if !changed {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	updated, err := google.Call(ctx, c.limiter, domain.ServiceCalendar, "patch", func() (*calendar.Event, error) {
		return c.svc.Events.Patch(c.calendarID, id, patch).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toEvent(updated), nil
}

// Delete removes an event.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := google.Call(ctx, c.limiter, domain.ServiceCalendar, "delete", func() (struct{}, error) {
		return struct{}{}, c.svc.Events.Delete(c.calendarID, id).Context(ctx).Do()
	})
	return err
}

// Extension reports no calendar-specific operations.
func (c *Client) Extension(string) (driven.ExtensionFunc, bool) {
	return nil, false
}
