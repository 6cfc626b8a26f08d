package domain

import "time"

// Activity records one handled request for the history command.
type Activity struct {
	ID        string
	Request   string
	Service   Service
	Action    string
	Status    Status
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}
