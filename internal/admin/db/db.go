package db

import (
	"context"
	"time"

	"campus-events/internal/models"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

type DB struct {
	Bun *bun.DB
}

// GetAdminByUsername → credential record lookup for login.
func (d *DB) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := d.Bun.NewSelect().
		Model(&admin).
		Where("username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// EnsureAdmin seeds a credential record on first boot. Existing accounts
// are left untouched, so rotating the env password needs a manual reset.
func (d *DB) EnsureAdmin(ctx context.Context, username, password string) error {
	exists, err := d.Bun.NewSelect().
		Model((*models.AdminUser)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = d.Bun.NewInsert().
		Model(&models.AdminUser{Username: username, PasswordHash: string(hash)}).
		Exec(ctx)
	return err
}

// TouchLastLogin records a successful authentication.
func (d *DB) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.AdminUser)(nil)).
		Set("last_login = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
