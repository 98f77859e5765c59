package db

import (
	"context"

	"campus-events/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ListEvents → all events with registration counts, soonest first.
func (d *DB) ListEvents(ctx context.Context) ([]models.EventWithCount, error) {
	events := make([]models.EventWithCount, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		ColumnExpr("e.*").
		ColumnExpr("count(s.id) AS registration_count").
		Join("LEFT JOIN students AS s ON s.event_id = e.id").
		GroupExpr("e.id").
		OrderExpr("e.date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent → one event with its registration count.
func (d *DB) GetEvent(ctx context.Context, id int64) (*models.EventWithCount, error) {
	var event models.EventWithCount
	err := d.Bun.NewSelect().
		Model(&event).
		ColumnExpr("e.*").
		ColumnExpr("count(s.id) AS registration_count").
		Join("LEFT JOIN students AS s ON s.event_id = e.id").
		Where("e.id = ?", id).
		GroupExpr("e.id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (d *DB) EventExists(ctx context.Context, id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Where("e.id = ?", id).
		Exists(ctx)
}

// CreateEvent → insert new event; the id is filled in on return.
func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	return err
}

// UpdateEvent → set only the supplied columns.
func (d *DB) UpdateEvent(ctx context.Context, id int64, updates map[string]interface{}) error {
	q := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Where("id = ?", id)
	for col, val := range updates {
		q = q.Set("? = ?", bun.Ident(col), val)
	}
	_, err := q.Exec(ctx)
	return err
}

// DeleteEvent removes the event and every registration pointing to it in
// one transaction, so the cascade holds even without FK enforcement.
func (d *DB) DeleteEvent(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Student)(nil)).
			Where("event_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Event)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
}
