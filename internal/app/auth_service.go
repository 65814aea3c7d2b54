package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amanthanvi/assetvault/internal/audit"
	"github.com/amanthanvi/assetvault/internal/session"
	"github.com/amanthanvi/assetvault/internal/storage"
)

type AuthService struct {
	users    storage.UserRepository
	sessions *session.Manager
	audit    *audit.Service
}

func NewAuthService(users storage.UserRepository, sessions *session.Manager, auditSvc *audit.Service) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		audit:    auditSvc,
	}
}

// Login authenticates and starts a session. Failed attempts are audited but
// never locked out or rate limited; the store is single-user and local.
func (s *AuthService) Login(ctx context.Context, username, password string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return session.Session{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return session.Session{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = s.audit.Record(ctx, audit.Event{
				Action: audit.ActionLoginFailed,
				Actor:  username,
			})
			return session.Session{}, ErrInvalidCredentials
		}
		return session.Session{}, fmt.Errorf("login: %w", err)
	}

	started := s.sessions.Start(user)
	if err := s.audit.Record(ctx, audit.Event{
		Action: audit.ActionLogin,
		Actor:  user.Username,
	}); err != nil {
		return session.Session{}, fmt.Errorf("login: %w", err)
	}
	return started, nil
}

// Logout ends the current session. Ending an absent session is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	current, ok := s.sessions.Current()
	if !ok {
		return nil
	}
	s.sessions.End()
	if err := s.audit.Record(ctx, audit.Event{
		Action: audit.ActionLogout,
		Actor:  current.Username,
	}); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current reports the live session.
func (s *AuthService) Current() (session.Session, bool) {
	return s.sessions.Current()
}
