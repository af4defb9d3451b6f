package sessions

import (
	"context"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.SessionUser{ID: 7, Email: "test@gmail.com", Username: "test"}

func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, "sid", testUser, time.Hour))
	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, testUser, *got)

	require.NoError(t, store.Delete(ctx, "sid"))
	_, err = store.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, store.Delete(ctx, "sid"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	storeContract(t, store)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(context.Background(), "sid", testUser, time.Minute))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := store.Get(context.Background(), "sid")
	assert.ErrorIs(t, err, ErrNoSession)

	store.deleteExpired()
	assert.Empty(t, store.sessions)
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadgerStore("")
	require.NoError(t, err)
	defer store.Close()
	storeContract(t, store)
}

func newTestManager() *Manager {
	return NewManager(slog.Default(), NewMemoryStore(0), CookieConfig{Name: "sid", TTL: time.Hour})
}

func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Read(ctx, req)
	assert.ErrorIs(t, err, ErrNoSession)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Establish(ctx, rec, req, testUser))
	cookie := cookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	got, err := m.Read(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, testUser, *got)

	rec = httptest.NewRecorder()
	require.NoError(t, m.Clear(ctx, rec, req))
	assert.Equal(t, -1, cookieFrom(t, rec).MaxAge)
	_, err = m.Read(ctx, req)
	assert.ErrorIs(t, err, ErrNoSession)

	// clearing twice and clearing without a cookie both succeed
	assert.NoError(t, m.Clear(ctx, httptest.NewRecorder(), req))
	assert.NoError(t, m.Clear(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestManagerEstablishReplacesPreviousSession(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Establish(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), testUser))
	first := cookieFrom(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(first)
	rec = httptest.NewRecorder()
	require.NoError(t, m.Establish(ctx, rec, req, testUser))
	second := cookieFrom(t, rec)
	assert.NotEqual(t, first.Value, second.Value)

	_, err := m.Read(ctx, req)
	assert.ErrorIs(t, err, ErrNoSession)
}
