package screens

import (
	"context"
	"fmt"
	"sync"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/session"
	"go.uber.org/zap"
)

// Admin is the moderation screen. Its API calls carry the admin token held
// by the session.
type Admin struct {
	api    API
	sess   *session.Session
	notify Notifier

	mu        sync.RWMutex
	providers []models.ProviderListing
	counts    map[models.ProfileStatus]int
}

func NewAdmin(api API, sess *session.Session, notify Notifier) *Admin {
	return &Admin{api: api, sess: sess, notify: notify, counts: map[models.ProfileStatus]int{}}
}

// Login signs in and keeps the admin credentials. Non-admin accounts are
// refused and no session is started for them.
func (a *Admin) Login(ctx context.Context, email, password string) error {
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.notify.Notify(LevelError, "Invalid credentials.")
		return err
	}
	if !res.User.IsAdminAccount() {
		a.notify.Notify(LevelError, "This account is not an administrator.")
		return session.ErrNotAdmin
	}
	if err := a.sess.Login(res.User, res.Token); err != nil {
		return err
	}
	return a.sess.SetAdmin(session.AdminCredentials{
		UserID: res.User.ID,
		Email:  res.User.Email,
		Token:  res.Token,
	})
}

// Load fetches every provider and tallies them per moderation status.
func (a *Admin) Load(ctx context.Context) error {
	if _, ok := a.sess.Admin(); !ok {
		return ErrNotSignedIn
	}
	providers, err := a.api.AdminProviders(ctx)
	if err != nil {
		logger.L().Warn("loading providers for moderation", zap.Error(err))
		a.notify.Notify(LevelError, "Could not load providers.")
		providers = []models.ProviderListing{}
	}

	counts := map[models.ProfileStatus]int{
		models.ProfilePending: 0,
		models.ProfileActive:  0,
		models.ProfileBlocked: 0,
	}
	for _, p := range providers {
		counts[p.Status]++
	}

	a.mu.Lock()
	a.providers, a.counts = providers, counts
	a.mu.Unlock()
	return nil
}

func (a *Admin) Providers() []models.ProviderListing {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.ProviderListing(nil), a.providers...)
}

// Counts is the number of providers per moderation status.
func (a *Admin) Counts() map[models.ProfileStatus]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[models.ProfileStatus]int, len(a.counts))
	for k, v := range a.counts {
		out[k] = v
	}
	return out
}

// SetStatus moderates one provider and reloads the list.
func (a *Admin) SetStatus(ctx context.Context, providerID uint, status models.ProfileStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid provider status %q", status)
	}
	if err := a.api.SetProviderStatus(ctx, providerID, status); err != nil {
		logger.L().Warn("moderating provider", zap.Uint("provider_id", providerID), zap.Error(err))
		a.notify.Notify(LevelError, "Could not change the provider status.")
		return err
	}
	a.notify.Notify(LevelSuccess, "Provider status updated.")
	return a.Load(ctx)
}

// Logout ends the admin session.
func (a *Admin) Logout() error {
	return a.sess.Logout()
}
