package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          int64     `bun:"id,pk,autoincrement"`
	EventName   string    `bun:"event_name,notnull"`
	Date        string    `bun:"date,notnull"` // YYYY-MM-DD, stored as text
	Venue       string    `bun:"venue,notnull"`
	Description string    `bun:"description,notnull,default:''"`
	MaxCapacity int       `bun:"max_capacity,notnull,default:100"`
	CreatedAt   time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
}

// EventWithCount is an Event joined with its current registration count.
type EventWithCount struct {
	Event             `bun:",extend"`
	RegistrationCount int `bun:"registration_count,scanonly"`
}

// EventOccupancy is the slice of event state the admission check needs.
type EventOccupancy struct {
	ID           int64  `bun:"id"`
	EventName    string `bun:"event_name"`
	MaxCapacity  int    `bun:"max_capacity"`
	CurrentCount int    `bun:"current_count"`
}

// EventResponse is the wire representation of an event. IDs go out as
// strings to match what the frontend stores.
type EventResponse struct {
	ID                string `json:"id"`
	EventName         string `json:"eventName"`
	Date              string `json:"date"`
	Venue             string `json:"venue"`
	Description       string `json:"description"`
	MaxCapacity       int    `json:"maxCapacity"`
	RegistrationCount int    `json:"registrationCount"`
	CreatedAt         string `json:"createdAt"`
}

func (e *EventWithCount) ToResponse() EventResponse {
	return EventResponse{
		ID:                strconv.FormatInt(e.ID, 10),
		EventName:         e.EventName,
		Date:              e.Date,
		Venue:             e.Venue,
		Description:       e.Description,
		MaxCapacity:       e.MaxCapacity,
		RegistrationCount: e.RegistrationCount,
		CreatedAt:         e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// EventCreatedResponse echoes the stored fields of a newly created event.
type EventCreatedResponse struct {
	ID          string `json:"id"`
	EventName   string `json:"eventName"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	MaxCapacity int    `json:"maxCapacity"`
}

func (e *Event) ToCreatedResponse() EventCreatedResponse {
	return EventCreatedResponse{
		ID:          strconv.FormatInt(e.ID, 10),
		EventName:   e.EventName,
		Date:        e.Date,
		Venue:       e.Venue,
		Description: e.Description,
		MaxCapacity: e.MaxCapacity,
	}
}

// CreateEventRequest is the POST /api/events body.
type CreateEventRequest struct {
	EventName   string `json:"eventName"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	MaxCapacity *int   `json:"maxCapacity"`
}

// UpdateEventRequest carries a partial update; nil means "leave unchanged".
type UpdateEventRequest struct {
	EventName   *string `json:"eventName"`
	Date        *string `json:"date"`
	Venue       *string `json:"venue"`
	Description *string `json:"description"`
	MaxCapacity *int    `json:"maxCapacity"`
}
