package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"campus-events/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ListStudents → registrations joined with event display fields, optionally
// filtered to one event or matched against name/email/roll number.
func (d *DB) ListStudents(ctx context.Context, eventID *int64, search string) ([]models.StudentWithEvent, error) {
	students := make([]models.StudentWithEvent, 0)
	q := d.Bun.NewSelect().
		Model(&students).
		ColumnExpr("s.*").
		ColumnExpr("e.event_name").
		ColumnExpr("e.date AS event_date").
		ColumnExpr("e.venue").
		Join("JOIN events AS e ON s.event_id = e.id")

	if eventID != nil {
		q = q.Where("s.event_id = ?", *eventID)
	}
	if search != "" {
		term := "%" + search + "%"
		q = q.Where("(s.full_name LIKE ? OR s.email LIKE ? OR s.university_roll_number LIKE ?)",
			term, term, term)
	}

	err := q.OrderExpr("s.registered_at DESC, s.id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (d *DB) GetStudent(ctx context.Context, id int64) (*models.StudentWithEvent, error) {
	var student models.StudentWithEvent
	err := d.Bun.NewSelect().
		Model(&student).
		ColumnExpr("s.*").
		ColumnExpr("e.event_name").
		ColumnExpr("e.date AS event_date").
		ColumnExpr("e.venue").
		Join("JOIN events AS e ON s.event_id = e.id").
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetEventOccupancy → the target event with its current registration count,
// or sql.ErrNoRows when the event does not exist.
func (d *DB) GetEventOccupancy(ctx context.Context, eventID int64) (*models.EventOccupancy, error) {
	return eventOccupancy(ctx, d.Bun, eventID)
}

// HasDuplicate reports whether any registration for the event already uses
// the email or the roll number.
func (d *DB) HasDuplicate(ctx context.Context, eventID int64, email, rollNumber string) (bool, error) {
	return hasDuplicate(ctx, d.Bun, eventID, email, rollNumber)
}

// CreateStudent admits a registration inside one transaction: occupancy and
// duplicates are re-checked under the transaction before the insert, and a
// unique-constraint violation from a concurrent insert is reported as a
// duplicate rather than a store error.
func (d *DB) CreateStudent(ctx context.Context, student *models.Student) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		occ, err := eventOccupancy(ctx, tx, student.EventID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrEventNotFound
		}
		if err != nil {
			return err
		}
		if occ.CurrentCount >= occ.MaxCapacity {
			return models.ErrCapacityFull
		}

		dup, err := hasDuplicate(ctx, tx, student.EventID, student.Email, student.UniversityRollNumber)
		if err != nil {
			return err
		}
		if dup {
			return models.ErrDuplicateRegistration
		}

		if _, err := tx.NewInsert().Model(student).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return models.ErrDuplicateRegistration
			}
			return err
		}
		return nil
	})
}

func (d *DB) StudentExists(ctx context.Context, id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Student)(nil)).
		Where("s.id = ?", id).
		Exists(ctx)
}

func (d *DB) DeleteStudent(ctx context.Context, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Student)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func eventOccupancy(ctx context.Context, idb bun.IDB, eventID int64) (*models.EventOccupancy, error) {
	var occ models.EventOccupancy
	err := idb.NewSelect().
		Model((*models.Event)(nil)).
		ColumnExpr("e.id").
		ColumnExpr("e.event_name").
		ColumnExpr("e.max_capacity").
		ColumnExpr("count(s.id) AS current_count").
		Join("LEFT JOIN students AS s ON s.event_id = e.id").
		Where("e.id = ?", eventID).
		GroupExpr("e.id").
		Scan(ctx, &occ)
	if err != nil {
		return nil, err
	}
	return &occ, nil
}

func hasDuplicate(ctx context.Context, idb bun.IDB, eventID int64, email, rollNumber string) (bool, error) {
	return idb.NewSelect().
		Model((*models.Student)(nil)).
		Where("s.event_id = ?", eventID).
		Where("(s.email = ? OR s.university_roll_number = ?)", email, rollNumber).
		Exists(ctx)
}

// isUniqueViolation matches both the postgres and sqlite wording so the
// same code path serves production and the in-memory test database.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
