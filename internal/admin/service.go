package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-events/internal/admin/session"
	"campus-events/internal/logger"
	"campus-events/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type DBLayer interface {
	GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// Service authenticates admin credentials and manages their sessions.
// Unknown usernames and wrong passwords are indistinguishable to callers.
type Service struct {
	DB       DBLayer
	Sessions session.Store
	Logger   *logger.Logger
}

func NewService(db DBLayer, sessions session.Store, log *logger.Logger) *Service {
	return &Service{DB: db, Sessions: sessions, Logger: log}
}

// Login verifies the credential pair and, on success, establishes a session
// and returns its token. Failed attempts are logged but never throttled.
func (s *Service) Login(ctx context.Context, username, password string) (token string, adminUsername string, err error) {
	admin, err := s.DB.GetAdminByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("unknown username %q", username))
		return "", "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("wrong password for %q", username))
		return "", "", models.ErrInvalidCredentials
	}

	if err := s.DB.TouchLastLogin(ctx, admin.ID); err != nil {
		return "", "", err
	}

	token, err = s.Sessions.Create(ctx, session.Session{
		AdminID:  admin.ID,
		Username: admin.Username,
	})
	if err != nil {
		return "", "", err
	}

	s.Logger.LogSecurity("LOGIN_OK", fmt.Sprintf("admin %q logged in", admin.Username))
	return token, admin.Username, nil
}

// Logout destroys the session; calling it without a session is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Sessions.Destroy(ctx, token)
}

// Status resolves a token to its session, read-only.
func (s *Service) Status(ctx context.Context, token string) (bool, string) {
	if token == "" {
		return false, ""
	}
	sess, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return false, ""
	}
	return true, sess.Username
}

// Resolve returns the session for a token, or ErrSessionNotFound.
func (s *Service) Resolve(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, models.ErrSessionNotFound
	}
	return s.Sessions.Get(ctx, token)
}
