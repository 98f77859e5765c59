package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AdminUser is a pre-provisioned administrator credential. Admin accounts
// are seeded at startup and never created through the API.
type AdminUser struct {
	bun.BaseModel `bun:"table:admin_users,alias:a"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	LastLogin    time.Time `bun:"last_login,nullzero"`
}

// LoginRequest is the POST /api/admin?action=login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
