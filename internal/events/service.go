package events

import (
	"context"
	"database/sql"
	"errors"

	"campus-events/internal/models"
	"campus-events/internal/validation"
)

type DBLayer interface {
	ListEvents(ctx context.Context) ([]models.EventWithCount, error)
	GetEvent(ctx context.Context, id int64) (*models.EventWithCount, error)
	EventExists(ctx context.Context, id int64) (bool, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Service owns event lifecycle: create, partial update, cascade delete.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) List(ctx context.Context) ([]models.EventWithCount, error) {
	return s.DB.ListEvents(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.EventWithCount, error) {
	event, err := s.DB.GetEvent(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) Create(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	missing := validation.MissingFields(map[string]string{
		"eventName": req.EventName,
		"date":      req.Date,
		"venue":     req.Venue,
	}, []string{"eventName", "date", "venue"})
	if len(missing) > 0 {
		return nil, &models.MissingFieldsError{Fields: missing}
	}

	date := validation.Sanitize(req.Date)
	if !validation.ValidDate(date) {
		return nil, models.NewFieldError("date", "Invalid date format. Use YYYY-MM-DD")
	}

	event := &models.Event{
		EventName:   validation.Sanitize(req.EventName),
		Date:        date,
		Venue:       validation.Sanitize(req.Venue),
		Description: validation.Sanitize(req.Description),
		MaxCapacity: 100,
	}
	if req.MaxCapacity != nil {
		event.MaxCapacity = *req.MaxCapacity
	}

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) Update(ctx context.Context, id int64, req models.UpdateEventRequest) error {
	exists, err := s.DB.EventExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrEventNotFound
	}

	updates := map[string]interface{}{}
	if req.EventName != nil {
		updates["event_name"] = validation.Sanitize(*req.EventName)
	}
	if req.Date != nil {
		if !validation.ValidDate(*req.Date) {
			return models.NewFieldError("date", "Invalid date format. Use YYYY-MM-DD")
		}
		updates["date"] = *req.Date
	}
	if req.Venue != nil {
		updates["venue"] = validation.Sanitize(*req.Venue)
	}
	if req.Description != nil {
		updates["description"] = validation.Sanitize(*req.Description)
	}
	if req.MaxCapacity != nil {
		updates["max_capacity"] = *req.MaxCapacity
	}

	if len(updates) == 0 {
		return models.ErrNoFields
	}
	return s.DB.UpdateEvent(ctx, id, updates)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.DB.EventExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrEventNotFound
	}
	return s.DB.DeleteEvent(ctx, id)
}
