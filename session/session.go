package session

import (
	"errors"
	"sync"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"go.uber.org/zap"
)

// Store keys. Admin credentials live in their own namespace so they can be
// purged without touching the user record.
const (
	KeyCurrentUser = "current_user"
	KeyAuthToken   = "auth_token"
	KeyAdmin       = "admin:credentials"
)

var (
	ErrNoSession = errors.New("no active session")
	ErrNotAdmin  = errors.New("active session is not an administrator")
)

// AdminCredentials authorize the moderation routes.
type AdminCredentials struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Session is the signed-in user on this device.
type Session struct {
	store Store

	mu    sync.RWMutex
	user  *models.User
	token string
	admin *AdminCredentials
}

// New returns an empty session backed by store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Restore rebuilds the session persisted in store and reconciles it, so
// admin credentials left behind by another account are dropped.
func Restore(store Store) (*Session, error) {
	s := New(store)

	var user models.User
	ok, err := store.Load(KeyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if ok {
		s.user = &user
		if _, err := store.Load(KeyAuthToken, &s.token); err != nil {
			return nil, err
		}
	}

	var admin AdminCredentials
	if ok, err := store.Load(KeyAdmin, &admin); err != nil {
		return nil, err
	} else if ok {
		s.admin = &admin
	}

	if err := s.Reconcile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Login starts a session for user. The password hash is never persisted.
func (s *Session) Login(user models.User, token string) error {
	user.Password = ""

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	if err := s.store.Save(KeyCurrentUser, user); err != nil {
		return err
	}
	if err := s.store.Save(KeyAuthToken, token); err != nil {
		return err
	}
	logger.L().Debug("session started", zap.Uint("user_id", user.ID))
	return s.Reconcile()
}

// Logout ends the session and purges admin credentials with it.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.admin = nil
	s.mu.Unlock()

	return errors.Join(
		s.store.Delete(KeyCurrentUser),
		s.store.Delete(KeyAuthToken),
		s.store.Delete(KeyAdmin),
	)
}

// SetAdmin stores admin credentials. The active user must be an admin.
func (s *Session) SetAdmin(creds AdminCredentials) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	if !s.user.IsAdminAccount() || s.user.ID != creds.UserID {
		s.mu.Unlock()
		return ErrNotAdmin
	}
	s.admin = &creds
	s.mu.Unlock()

	return s.store.Save(KeyAdmin, creds)
}

// Reconcile purges admin credentials unless the active session belongs to
// the administrator they were issued to.
func (s *Session) Reconcile() error {
	s.mu.Lock()
	keep := s.admin != nil && s.user != nil && s.user.IsAdminAccount() && s.user.ID == s.admin.UserID
	if keep {
		s.mu.Unlock()
		return nil
	}
	had := s.admin != nil
	s.admin = nil
	s.mu.Unlock()

	if had {
		logger.L().Info("purging admin credentials from a non-admin session")
	}
	return s.store.Delete(KeyAdmin)
}

// User returns a copy of the signed-in user.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Admin returns the stored admin credentials.
func (s *Session) Admin() (AdminCredentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return AdminCredentials{}, false
	}
	return *s.admin, true
}

// Token is the bearer credential for API calls: the admin token while one
// is held, the user token otherwise.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin != nil {
		return s.admin.Token
	}
	return s.token
}
