package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// Student is one registration of a student for one event.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID                   int64     `bun:"id,pk,autoincrement"`
	FullName             string    `bun:"full_name,notnull"`
	Email                string    `bun:"email,notnull"`
	ContactNumber        string    `bun:"contact_number,notnull"`
	CollegeName          string    `bun:"college_name,notnull"`
	Age                  int       `bun:"age,notnull"`
	Gender               string    `bun:"gender,notnull"`
	UniversityRollNumber string    `bun:"university_roll_number,notnull"`
	Batch                string    `bun:"batch,notnull"`
	EventID              int64     `bun:"event_id,notnull"`
	RegisteredAt         time.Time `bun:"registered_at,notnull,nullzero,default:current_timestamp"`
}

// StudentWithEvent is a Student joined with its event's display fields.
type StudentWithEvent struct {
	Student   `bun:",extend"`
	EventName string `bun:"event_name,scanonly"`
	EventDate string `bun:"event_date,scanonly"`
	Venue     string `bun:"venue,scanonly"`
}

type StudentResponse struct {
	ID                   string `json:"id"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	ContactNumber        string `json:"contactNumber"`
	CollegeName          string `json:"collegeName"`
	Age                  int    `json:"age"`
	Gender               string `json:"gender"`
	UniversityRollNumber string `json:"universityRollNumber"`
	Batch                string `json:"batch"`
	EventID              string `json:"eventId"`
	EventName            string `json:"eventName"`
	EventDate            string `json:"eventDate"`
	Venue                string `json:"venue"`
	RegisteredAt         string `json:"registeredAt"`
}

func (s *StudentWithEvent) ToResponse() StudentResponse {
	return StudentResponse{
		ID:                   strconv.FormatInt(s.ID, 10),
		FullName:             s.FullName,
		Email:                s.Email,
		ContactNumber:        s.ContactNumber,
		CollegeName:          s.CollegeName,
		Age:                  s.Age,
		Gender:               s.Gender,
		UniversityRollNumber: s.UniversityRollNumber,
		Batch:                s.Batch,
		EventID:              strconv.FormatInt(s.EventID, 10),
		EventName:            s.EventName,
		EventDate:            s.EventDate,
		Venue:                s.Venue,
		RegisteredAt:         s.RegisteredAt.Format("2006-01-02 15:04:05"),
	}
}

// RegisterRequest is the POST /api/students body. The frontend sends the
// event id as a string and the age as a number.
type RegisterRequest struct {
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	ContactNumber        string `json:"contactNumber"`
	CollegeName          string `json:"collegeName"`
	Age                  int    `json:"age"`
	Gender               string `json:"gender"`
	UniversityRollNumber string `json:"universityRollNumber"`
	Batch                string `json:"batch"`
	EventID              string `json:"eventId"`
}

// RegistrationResult is what a successful admission returns: the stored
// registration plus the event name for the welcome message.
type RegistrationResult struct {
	Student   *Student
	EventName string
}

// RegistrationCreatedResponse is the body of a successful registration.
type RegistrationCreatedResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	EventName string `json:"eventName"`
}

func (r *RegistrationResult) ToResponse() RegistrationCreatedResponse {
	return RegistrationCreatedResponse{
		ID:        strconv.FormatInt(r.Student.ID, 10),
		FullName:  r.Student.FullName,
		Email:     r.Student.Email,
		EventName: r.EventName,
	}
}
