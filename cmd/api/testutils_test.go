package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"moviehub/proj/internal/config"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/services"
	"moviehub/proj/internal/services/auth"
	"moviehub/proj/internal/services/comments"
	"moviehub/proj/internal/services/messages"
	"moviehub/proj/internal/services/ratings"
	"moviehub/proj/internal/services/users"
	"moviehub/proj/internal/sessions"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testSecret = "test-secret"

type fakeAccount struct {
	user     models.User
	password string
}

// fakeAccounts backs both the auth and the users service.
type fakeAccounts struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]*fakeAccount
	tokens   *auth.TokenManager
	err      error
}

func newFakeAccounts(tokens *auth.TokenManager) *fakeAccounts {
	return &fakeAccounts{accounts: make(map[string]*fakeAccount), tokens: tokens}
}

func (f *fakeAccounts) Register(ctx context.Context, p users.RegisterParams) (*models.User, error) {
	return f.Signup(ctx, p.Email, p.Username, p.Password)
}

func (f *fakeAccounts) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(password) > users.MaxPasswordBytes {
		return nil, users.ErrPasswordTooLong
	}
	if _, ok := f.accounts[email]; ok {
		return nil, users.ErrUserAlreadyExists
	}
	f.nextID++
	acc := &fakeAccount{
		user:     models.User{ID: f.nextID, Email: email, Username: username, CreationDate: "2026-10-17"},
		password: password,
	}
	f.accounts[email] = acc
	user := acc.user
	return &user, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[email]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	if acc.password != password {
		return nil, users.ErrInvalidCredentials
	}
	token, err := f.tokens.Issue(models.Identity{ID: acc.user.ID, Email: email})
	if err != nil {
		return nil, err
	}
	user := acc.user
	return &auth.LoginResult{Token: token, User: &user}, nil
}

func (f *fakeAccounts) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.user.ID == id {
			user := acc.user
			return &user, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (f *fakeAccounts) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if oldPassword == "" || newPassword == "" {
		return users.ErrMissingFields
	}
	if oldPassword == newPassword {
		return users.ErrSamePassword
	}
	if len(newPassword) > users.MaxPasswordBytes {
		return users.ErrPasswordTooLong
	}
	acc, ok := f.accounts[email]
	if !ok || acc.password != oldPassword {
		return users.ErrInvalidCredentials
	}
	acc.password = newPassword
	return nil
}

type fakeMovies struct {
	movies []models.Movie
	seen   map[string][]models.Movie
	err    error
}

func (f *fakeMovies) Grouped(ctx context.Context) (map[string][]models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	grouped := make(map[string][]models.Movie)
	for _, m := range f.movies {
		grouped[m.Type] = append(grouped[m.Type], m)
	}
	return grouped, nil
}

func (f *fakeMovies) ByCategory(ctx context.Context, category string) ([]models.Movie, error) {
	var out []models.Movie
	for _, m := range f.movies {
		if m.Type == category {
			out = append(out, m)
		}
	}
	return out, f.err
}

func (f *fakeMovies) TopRated(ctx context.Context) ([]models.Movie, error) {
	return f.movies, f.err
}

func (f *fakeMovies) SeenBy(ctx context.Context, email string) ([]models.Movie, error) {
	return f.seen[email], f.err
}

type fakeRatings struct {
	mu     sync.Mutex
	scores map[int][]int
	err    error
}

func (f *fakeRatings) Submit(ctx context.Context, user models.Identity, movieID int, rating int) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if rating < ratings.MinRating || rating > ratings.MaxRating {
		return 0, ratings.ErrInvalidInput
	}
	scores, ok := f.scores[movieID]
	if !ok {
		return 0, ratings.ErrMovieNotFound
	}
	scores = append(scores, rating)
	f.scores[movieID] = scores
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores)), nil
}

type fakeComments struct {
	list []models.Comment
}

func (f *fakeComments) Add(ctx context.Context, p comments.AddParams) (*models.Comment, error) {
	c := models.Comment{ID: bson.NewObjectID(), MovieID: p.MovieID, Username: p.Username, Comment: p.Comment, Title: p.Title, Rating: p.Rating}
	f.list = append(f.list, c)
	return &c, nil
}

func (f *fakeComments) ForMovie(ctx context.Context, movieID int) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range f.list {
		if c.MovieID == movieID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMessages struct {
	mu   sync.Mutex
	msgs map[string]*models.Message
}

func (f *fakeMessages) lookup(id string) (*models.Message, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, messages.ErrInvalidID
	}
	msg, ok := f.msgs[id]
	if !ok {
		return nil, messages.ErrMessageNotFound
	}
	return msg, nil
}

func (f *fakeMessages) Add(ctx context.Context, name string, userID int64) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	msg := &models.Message{ID: bson.NewObjectID(), Name: name, User: &userID, CreatedAt: now, UpdatedAt: now}
	f.msgs[msg.ID.Hex()] = msg
	return msg, nil
}

func (f *fakeMessages) List(ctx context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.msgs {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMessages) ListByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.msgs {
		if m.User != nil && *m.User == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessages) Get(ctx context.Context, id string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookup(id)
}

func (f *fakeMessages) Edit(ctx context.Context, id, name string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	msg.Name = name
	return msg, nil
}

func (f *fakeMessages) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.lookup(id); err != nil {
		return err
	}
	delete(f.msgs, id)
	return nil
}

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakePinger) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type testEnv struct {
	app      *Application
	handler  http.Handler
	accounts *fakeAccounts
	movies   *fakeMovies
	ratings  *fakeRatings
	comments *fakeComments
	messages *fakeMessages
	postgres *fakePinger
	mongo    *fakePinger
}

func NewTestApplication(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Limiter: config.Limiter{LoginPerMinute: 1000},
		CORS:    config.CORS{AllowedOrigins: []string{"*"}},
	}
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	env := &testEnv{
		accounts: newFakeAccounts(tokens),
		movies: &fakeMovies{
			movies: []models.Movie{
				{MovieID: 1, Title: "Alien", Type: "horror", Rating: 4.5},
				{MovieID: 2, Title: "Heat", Type: "action", Rating: 4},
			},
			seen: map[string][]models.Movie{},
		},
		ratings:  &fakeRatings{scores: map[int][]int{1: {}, 2: {}}},
		comments: &fakeComments{},
		messages: &fakeMessages{msgs: make(map[string]*models.Message)},
		postgres: &fakePinger{},
		mongo:    &fakePinger{},
	}
	svc := &services.Services{
		Auth:     env.accounts,
		Users:    env.accounts,
		Movies:   env.movies,
		Ratings:  env.ratings,
		Comments: env.comments,
		Messages: env.messages,
	}
	store := sessions.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	manager := sessions.NewManager(slog.Default(), store, sessions.CookieConfig{Name: "sid", TTL: time.Hour})
	stores := map[string]Pinger{"postgres": env.postgres, "mongodb": env.mongo}
	env.app = NewApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), svc, manager, tokens, stores)
	env.handler = env.app.routes()
	t.Cleanup(env.app.stopBackground)
	return env
}

// do sends a request through the full router.
func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func withToken(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" && c.Value != "" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

// signedIn registers and logs in a user, returning its token and session cookie.
func (e *testEnv) signedIn(t *testing.T, email string) (string, *http.Cookie) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users/register", map[string]string{
		"email": email, "username": "neo", "password": "secret", "country": "NZ",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = e.do(t, http.MethodPost, "/users/login", map[string]string{"email": email, "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	return resp.Data["token"].(string), sessionCookie(t, rec)
}
