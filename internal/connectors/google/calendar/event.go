package calendar

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
)

const dateLayout = "2006-01-02"

// Accepted layouts for start_time and end_time, most specific first.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Event is the agent-facing view of a calendar event.
type Event struct {
	ID               string   `json:"id"`
	Summary          string   `json:"summary,omitempty"`
	Description      string   `json:"description,omitempty"`
	Location         string   `json:"location,omitempty"`
	Start            string   `json:"start,omitempty"`
	End              string   `json:"end,omitempty"`
	AllDay           bool     `json:"all_day,omitempty"`
	Status           string   `json:"status,omitempty"`
	Attendees        []string `json:"attendees,omitempty"`
	Organiser        string   `json:"organiser,omitempty"`
	RecurringEventID string   `json:"recurring_event_id,omitempty"`
	Link             string   `json:"link,omitempty"`
}

// toEvent converts a Google Calendar event.
func toEvent(event *calendar.Event) Event {
	start, end := extractEventTimes(event)
	return Event{
		ID:               event.Id,
		Summary:          event.Summary,
		Description:      event.Description,
		Location:         event.Location,
		Start:            start,
		End:              end,
		AllDay:           event.Start != nil && event.Start.DateTime == "" && event.Start.Date != "",
		Status:           event.Status,
		Attendees:        attendeeEmails(event.Attendees),
		Organiser:        getOrganiserEmail(event),
		RecurringEventID: event.RecurringEventId,
		Link:             event.HtmlLink,
	}
}

func attendeeEmails(attendees []*calendar.EventAttendee) []string {
	if len(attendees) == 0 {
		return nil
	}
	out := make([]string, 0, len(attendees))
	for _, a := range attendees {
		if a.Email != "" {
			out = append(out, a.Email)
		} else if a.DisplayName != "" {
			out = append(out, a.DisplayName)
		}
	}
	return out
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	out := make([]*calendar.EventAttendee, 0, len(emails))
	for _, e := range emails {
		out = append(out, &calendar.EventAttendee{Email: e})
	}
	return out
}

// extractEventTimes extracts start and end times from an event.
func extractEventTimes(event *calendar.Event) (startTime, endTime string) {
	if event.Start != nil {
		if event.Start.DateTime != "" {
			startTime = event.Start.DateTime
		} else {
			startTime = event.Start.Date
		}
	}
	if event.End != nil {
		if event.End.DateTime != "" {
			endTime = event.End.DateTime
		} else {
			endTime = event.End.Date
		}
	}
	return startTime, endTime
}

func getOrganiserEmail(event *calendar.Event) string {
	if event.Organizer != nil { //nolint:misspell // Google API field name
		return event.Organizer.Email //nolint:misspell // Google API field name
	}
	return ""
}

// parseWhen turns a model supplied time into an EventDateTime.
// A bare date makes an all-day boundary.
func parseWhen(value, timeZone string) (*calendar.EventDateTime, time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return &calendar.EventDateTime{Date: value}, t, nil
	}

	loc := time.Local
	if timeZone != "" {
		if l, err := time.LoadLocation(timeZone); err == nil {
			loc = l
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: timeZone}, t, nil
		}
	}
	return nil, time.Time{}, fmt.Errorf("unrecognised time %q", value)
}

// eventWindow resolves start and end. Missing times default to an
// all-day event today; a missing end follows the start by one hour
// (timed) or one day (all-day).
func eventWindow(startValue, endValue, timeZone string, now time.Time) (start, end *calendar.EventDateTime, err error) {
	var startAt time.Time
	if startValue == "" {
		startAt = now
		start = &calendar.EventDateTime{Date: now.Format(dateLayout)}
	} else if start, startAt, err = parseWhen(startValue, timeZone); err != nil {
		return nil, nil, fmt.Errorf("start_time: %w", err)
	}

	if endValue != "" {
		if end, _, err = parseWhen(endValue, timeZone); err != nil {
			return nil, nil, fmt.Errorf("end_time: %w", err)
		}
		return start, end, nil
	}

	if start.Date != "" {
		return start, &calendar.EventDateTime{Date: startAt.AddDate(0, 0, 1).Format(dateLayout)}, nil
	}
	return start, &calendar.EventDateTime{
		DateTime: startAt.Add(time.Hour).Format(time.RFC3339),
		TimeZone: timeZone,
	}, nil
}
