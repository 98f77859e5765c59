package students

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"campus-events/internal/models"
	"campus-events/internal/validation"
)

type DBLayer interface {
	ListStudents(ctx context.Context, eventID *int64, search string) ([]models.StudentWithEvent, error)
	GetStudent(ctx context.Context, id int64) (*models.StudentWithEvent, error)
	GetEventOccupancy(ctx context.Context, eventID int64) (*models.EventOccupancy, error)
	HasDuplicate(ctx context.Context, eventID int64, email, rollNumber string) (bool, error)
	CreateStudent(ctx context.Context, student *models.Student) error
	StudentExists(ctx context.Context, id int64) (bool, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// Service implements registration admission: a candidate is validated,
// checked against event capacity and per-event duplicates, then inserted.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

var registerRequired = []string{
	"fullName", "email", "contactNumber", "collegeName",
	"age", "gender", "universityRollNumber", "batch", "eventId",
}

// Register admits or rejects a candidate registration. On success the
// stored registration and the event name are returned for confirmation
// messaging; every rejection is a typed, user-displayable error.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.RegistrationResult, error) {
	fields := map[string]string{
		"fullName":             req.FullName,
		"email":                req.Email,
		"contactNumber":        req.ContactNumber,
		"collegeName":          req.CollegeName,
		"gender":               req.Gender,
		"universityRollNumber": req.UniversityRollNumber,
		"batch":                req.Batch,
		"eventId":              req.EventID,
	}
	if req.Age != 0 {
		fields["age"] = strconv.Itoa(req.Age)
	}
	if missing := validation.MissingFields(fields, registerRequired); len(missing) > 0 {
		return nil, &models.MissingFieldsError{Fields: missing}
	}

	email := strings.TrimSpace(req.Email)
	if !validation.ValidEmail(email) {
		return nil, models.NewFieldError("email", "Invalid email format")
	}
	if !validation.ValidAge(req.Age) {
		return nil, models.NewFieldError("age", "Age must be between 16 and 30")
	}
	gender := validation.Sanitize(req.Gender)
	if !validation.ValidGender(gender) {
		return nil, models.NewFieldError("gender", "Invalid gender value")
	}

	eventID, err := strconv.ParseInt(validation.Sanitize(req.EventID), 10, 64)
	if err != nil {
		return nil, models.ErrEventNotFound
	}

	occ, err := s.DB.GetEventOccupancy(ctx, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if occ.CurrentCount >= occ.MaxCapacity {
		return nil, models.ErrCapacityFull
	}

	rollNumber := validation.Sanitize(req.UniversityRollNumber)
	dup, err := s.DB.HasDuplicate(ctx, eventID, email, rollNumber)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, models.ErrDuplicateRegistration
	}

	student := &models.Student{
		FullName:             validation.Sanitize(req.FullName),
		Email:                email,
		ContactNumber:        validation.Sanitize(req.ContactNumber),
		CollegeName:          validation.Sanitize(req.CollegeName),
		Age:                  req.Age,
		Gender:               gender,
		UniversityRollNumber: rollNumber,
		Batch:                validation.Sanitize(req.Batch),
		EventID:              eventID,
	}

	// CreateStudent re-checks capacity and duplicates under a transaction.
	if err := s.DB.CreateStudent(ctx, student); err != nil {
		return nil, err
	}
	return &models.RegistrationResult{Student: student, EventName: occ.EventName}, nil
}

func (s *Service) List(ctx context.Context, eventID *int64, search string) ([]models.StudentWithEvent, error) {
	return s.DB.ListStudents(ctx, eventID, validation.Sanitize(search))
}

func (s *Service) Get(ctx context.Context, id int64) (*models.StudentWithEvent, error) {
	student, err := s.DB.GetStudent(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.DB.StudentExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrStudentNotFound
	}
	return s.DB.DeleteStudent(ctx, id)
}
