package sessions

import (
	"context"
	"errors"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Manager binds a Store to the session cookie.
type Manager struct {
	log    *slog.Logger
	store  Store
	cookie CookieConfig
}

func NewManager(log *slog.Logger, store Store, cookie CookieConfig) *Manager {
	return &Manager{log: log, store: store, cookie: cookie}
}

func (m *Manager) sessionID(r *http.Request) string {
	c, err := r.Cookie(m.cookie.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Establish stores user under a fresh session id and sets the cookie. Any
// session the request already carried is dropped first.
func (m *Manager) Establish(ctx context.Context, w http.ResponseWriter, r *http.Request, user models.SessionUser) error {
	const op = "sessions.Manager.Establish"
	log := m.log.With("op", op, "user_id", user.ID)
	if old := m.sessionID(r); old != "" {
		if err := m.store.Delete(ctx, old); err != nil {
			log.Warn("failed to drop previous session", "errMsg", err.Error())
		}
	}
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, user, m.cookie.TTL); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.cookie.TTL.Seconds()),
		Secure:   m.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Debug("session established")
	return nil
}

// Read returns ErrNoSession when the request carries no live session.
func (m *Manager) Read(ctx context.Context, r *http.Request) (*models.SessionUser, error) {
	id := m.sessionID(r)
	if id == "" {
		return nil, ErrNoSession
	}
	return m.store.Get(ctx, id)
}

// Clear forgets the session and expires the cookie. Clearing an empty session succeeds.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if id := m.sessionID(r); id != "" {
		if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNoSession) {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   m.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
