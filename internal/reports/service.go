package reports

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"campus-events/internal/models"

	"github.com/uptrace/bun"
)

// Service aggregates dashboard statistics and export rows straight from
// the database.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	TotalEvents         int                  `json:"totalEvents"`
	UpcomingEvents      int                  `json:"upcomingEvents"`
	TotalStudents       int                  `json:"totalStudents"`
	TodayRegistrations  int                  `json:"todayRegistrations"`
	EventStats          []EventStat          `json:"eventStats"`
	RecentRegistrations []RecentRegistration `json:"recentRegistrations"`
}

// EventStat is one event's registration pressure, busiest first.
type EventStat struct {
	ID                string `json:"id"`
	EventName         string `json:"eventName"`
	MaxCapacity       int    `json:"maxCapacity"`
	RegistrationCount int    `json:"registrationCount"`
}

// RecentRegistration is one of the five newest signups.
type RecentRegistration struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	CollegeName  string `json:"collegeName"`
	EventName    string `json:"eventName"`
	RegisteredAt string `json:"registeredAt"`
}

// ExportRow is one CSV line of the registration export, joined with the
// event's display fields.
type ExportRow struct {
	FullName             string    `bun:"full_name"`
	Email                string    `bun:"email"`
	ContactNumber        string    `bun:"contact_number"`
	CollegeName          string    `bun:"college_name"`
	Age                  int       `bun:"age"`
	Gender               string    `bun:"gender"`
	UniversityRollNumber string    `bun:"university_roll_number"`
	Batch                string    `bun:"batch"`
	EventName            string    `bun:"event_name"`
	EventDate            string    `bun:"event_date"`
	Venue                string    `bun:"venue"`
	RegisteredAt         time.Time `bun:"registered_at"`
}

func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	today := time.Now().Format("2006-01-02")
	stats := &DashboardStats{
		EventStats:          []EventStat{},
		RecentRegistrations: []RecentRegistration{},
	}

	totalEvents, err := s.db.NewSelect().Model((*models.Event)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalEvents = totalEvents

	upcoming, err := s.db.NewSelect().
		Model((*models.Event)(nil)).
		Where("e.date >= ?", today).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.UpcomingEvents = upcoming

	totalStudents, err := s.db.NewSelect().Model((*models.Student)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalStudents = totalStudents

	todayCount, err := s.db.NewSelect().
		Model((*models.Student)(nil)).
		Where("date(s.registered_at) = ?", today).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TodayRegistrations = todayCount

	type eventStatRaw struct {
		ID                int64  `bun:"id"`
		EventName         string `bun:"event_name"`
		MaxCapacity       int    `bun:"max_capacity"`
		RegistrationCount int    `bun:"registration_count"`
	}
	var eventStats []eventStatRaw
	err = s.db.NewSelect().
		Model((*models.Event)(nil)).
		ColumnExpr("e.id").
		ColumnExpr("e.event_name").
		ColumnExpr("e.max_capacity").
		ColumnExpr("count(s.id) AS registration_count").
		Join("LEFT JOIN students AS s ON s.event_id = e.id").
		GroupExpr("e.id").
		OrderExpr("registration_count DESC").
		Scan(ctx, &eventStats)
	if err != nil {
		return nil, err
	}
	for _, e := range eventStats {
		stats.EventStats = append(stats.EventStats, EventStat{
			ID:                strconv.FormatInt(e.ID, 10),
			EventName:         e.EventName,
			MaxCapacity:       e.MaxCapacity,
			RegistrationCount: e.RegistrationCount,
		})
	}

	type recentRaw struct {
		ID           int64     `bun:"id"`
		FullName     string    `bun:"full_name"`
		Email        string    `bun:"email"`
		CollegeName  string    `bun:"college_name"`
		EventName    string    `bun:"event_name"`
		RegisteredAt time.Time `bun:"registered_at"`
	}
	var recent []recentRaw
	err = s.db.NewSelect().
		Model((*models.Student)(nil)).
		ColumnExpr("s.id").
		ColumnExpr("s.full_name").
		ColumnExpr("s.email").
		ColumnExpr("s.college_name").
		ColumnExpr("e.event_name").
		ColumnExpr("s.registered_at").
		Join("JOIN events AS e ON s.event_id = e.id").
		OrderExpr("s.registered_at DESC, s.id DESC").
		Limit(5).
		Scan(ctx, &recent)
	if err != nil {
		return nil, err
	}
	for _, r := range recent {
		stats.RecentRegistrations = append(stats.RecentRegistrations, RecentRegistration{
			ID:           strconv.FormatInt(r.ID, 10),
			FullName:     r.FullName,
			Email:        r.Email,
			CollegeName:  r.CollegeName,
			EventName:    r.EventName,
			RegisteredAt: r.RegisteredAt.Format("2006-01-02 15:04:05"),
		})
	}

	return stats, nil
}

// ExportRows returns every registration (optionally one event's), newest
// first. An empty result is ErrNoData: the caller must not produce a
// zero-row file.
func (s *Service) ExportRows(ctx context.Context, eventID *int64) ([]ExportRow, error) {
	var rows []ExportRow
	q := s.db.NewSelect().
		Model((*models.Student)(nil)).
		ColumnExpr("s.full_name").
		ColumnExpr("s.email").
		ColumnExpr("s.contact_number").
		ColumnExpr("s.college_name").
		ColumnExpr("s.age").
		ColumnExpr("s.gender").
		ColumnExpr("s.university_roll_number").
		ColumnExpr("s.batch").
		ColumnExpr("e.event_name").
		ColumnExpr("e.date AS event_date").
		ColumnExpr("e.venue").
		ColumnExpr("s.registered_at").
		Join("JOIN events AS e ON s.event_id = e.id")

	if eventID != nil {
		q = q.Where("s.event_id = ?", *eventID)
	}

	if err := q.OrderExpr("s.registered_at DESC, s.id DESC").Scan(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.ErrNoData
	}
	return rows, nil
}

// EventName resolves an event's display name for the export filename.
func (s *Service) EventName(ctx context.Context, eventID int64) (string, error) {
	var name string
	err := s.db.NewSelect().
		Model((*models.Event)(nil)).
		Column("event_name").
		Where("e.id = ?", eventID).
		Scan(ctx, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return name, err
}
