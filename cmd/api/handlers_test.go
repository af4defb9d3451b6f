package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck(t *testing.T) {
	env := NewTestApplication(t)

	rec := env.do(t, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Stores map[string]string `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "available", body.Status)
	assert.Equal(t, map[string]string{"postgres": "up", "mongodb": "up"}, body.Stores)

	env.mongo.fail(errors.New("connection refused"))
	rec = env.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Stores["mongodb"])
	assert.Equal(t, "up", body.Stores["postgres"])
}

func TestRegisterLoginFlow(t *testing.T) {
	env := NewTestApplication(t)
	body := map[string]string{
		"email": "neo@gmail.com", "username": "neo", "password": "secret", "country": "NZ",
		"creation_date": "1999-03-31",
	}

	rec := env.do(t, http.MethodPost, "/users/register", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "User created", resp.Message)
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = env.do(t, http.MethodPost, "/users/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already has an account", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/users/login", map[string]string{"email": "neo@gmail.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	assert.Equal(t, "neo", resp.Data["username"])
	token := resp.Data["token"].(string)
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	rec = env.do(t, http.MethodGet, "/movies/me", nil, withToken(token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/auth/me", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeResponse(t, rec).Data["user"].(map[string]any)
	assert.Equal(t, "neo@gmail.com", user["email"])
	assert.NotContains(t, user, "password")
}

func TestRegisterValidation(t *testing.T) {
	env := NewTestApplication(t)

	rec := env.do(t, http.MethodPost, "/users/register", map[string]string{
		"email": "neo@gmail.com", "username": "neo", "password": "secret", "country": "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "Missing parameters", resp.Message)
	assert.Contains(t, resp.Data["errors"], "country")

	rec = env.do(t, http.MethodPost, "/users/register", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body must not be empty", decodeResponse(t, rec).Message)
}

func TestPasswordLengthLimit(t *testing.T) {
	env := NewTestApplication(t)
	long := strings.Repeat("a", 80)
	// Under 72 characters but over 72 bytes, so only the service rejects it.
	wide := strings.Repeat("é", 40)

	for _, password := range []string{long, wide} {
		rec := env.do(t, http.MethodPost, "/users/register", map[string]string{
			"email": "neo@gmail.com", "username": "neo", "password": password, "country": "NZ",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		rec = env.do(t, http.MethodPost, "/auth/signup", map[string]string{
			"email": "neo@gmail.com", "username": "neo", "password": password,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	rec := env.do(t, http.MethodPost, "/users/register", map[string]string{
		"email": "neo@gmail.com", "username": "neo", "password": wide, "country": "NZ",
	})
	assert.Equal(t, "Password must not exceed 72 bytes", decodeResponse(t, rec).Message)

	_, cookie := env.signedIn(t, "neo@gmail.com")
	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "secret", "newPassword": long}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Data["errors"], "newPassword")

	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "secret", "newPassword": wide}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must not exceed 72 bytes", decodeResponse(t, rec).Message)
}

func TestUsersLoginFailures(t *testing.T) {
	env := NewTestApplication(t)
	env.signedIn(t, "neo@gmail.com")

	rec := env.do(t, http.MethodPost, "/users/login", map[string]string{"email": "neo@gmail.com", "password": "wrong"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Incorrect email/password", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/users/login", map[string]string{"email": "ghost@gmail.com", "password": "secret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/users/login", map[string]string{"email": "neo@gmail.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFamily(t *testing.T) {
	env := NewTestApplication(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{"email": "trinity@gmail.com", "username": "trinity", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decodeResponse(t, rec).Data["user"].(map[string]any)
	assert.Equal(t, "trinity", user["username"])

	rec = env.do(t, http.MethodPost, "/auth/signup", map[string]string{"email": "trinity@gmail.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ghost@gmail.com", "password": "secret"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "trinity@gmail.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email or password do not match", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "trinity@gmail.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeResponse(t, rec).Data["token"])
	cookie := sessionCookie(t, rec)

	rec = env.do(t, http.MethodGet, "/auth/me", nil, withCookie(cookie))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/auth/logout", nil, withCookie(cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Disconnected", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodGet, "/auth/me", nil, withCookie(cookie))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "You are not authenticated", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodGet, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMovies(t *testing.T) {
	env := NewTestApplication(t)
	token, _ := env.signedIn(t, "neo@gmail.com")

	rec := env.do(t, http.MethodGet, "/movies", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/movies", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	grouped := decodeResponse(t, rec).Data["movies"].(map[string]any)
	assert.Contains(t, grouped, "horror")
	assert.Contains(t, grouped, "action")

	rec = env.do(t, http.MethodGet, "/movies?category=horror", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec).Data["movies"], 1)

	rec = env.do(t, http.MethodGet, "/movies/top", nil, withToken(token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRatings(t *testing.T) {
	env := NewTestApplication(t)
	token, _ := env.signedIn(t, "neo@gmail.com")

	rec := env.do(t, http.MethodPost, "/ratings/1", map[string]int{"rating": 4}, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/ratings/1", map[string]int{"rating": 5}, withToken(token))
	resp := decodeResponse(t, rec)
	assert.Equal(t, "Rating added", resp.Message)
	assert.InDelta(t, 4.5, resp.Data["rating"], 1e-9)

	for _, rating := range []int{0, 6, -1} {
		rec = env.do(t, http.MethodPost, "/ratings/1", map[string]int{"rating": rating}, withToken(token))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}

	rec = env.do(t, http.MethodPost, "/ratings/abc", map[string]int{"rating": 3}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/ratings/99", map[string]int{"rating": 3}, withToken(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/ratings/1", map[string]int{"rating": 3}, withToken("bogus"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Len(t, env.ratings.scores[1], 2)
}

func TestComments(t *testing.T) {
	env := NewTestApplication(t)
	token, _ := env.signedIn(t, "neo@gmail.com")

	rec := env.do(t, http.MethodPost, "/comments/1", map[string]any{
		"rating": 5, "username": "neo", "comment": "great", "title": "wow",
	}, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Comment added", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/comments/1", map[string]any{"rating": 9, "username": "neo", "comment": "x", "title": "y"}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/comments/1", map[string]any{"rating": 3, "username": "neo", "comment": "x"}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/comments/1", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec).Data["comments"], 1)
}

func TestMessages(t *testing.T) {
	env := NewTestApplication(t)
	token, cookie := env.signedIn(t, "neo@gmail.com")

	rec := env.do(t, http.MethodPost, "/messages/add/message", map[string]any{"message": map[string]string{"name": "hi"}}, withToken(token))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "You are not authenticated", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/messages/add/message", map[string]any{"message": map[string]string{}}, withToken(token), withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/messages/add/message", map[string]any{"message": map[string]string{"name": "hi"}}, withToken(token), withCookie(cookie))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg := decodeResponse(t, rec).Data["message"].(map[string]any)
	id := msg["id"].(string)
	assert.EqualValues(t, 1, msg["user"])

	rec = env.do(t, http.MethodGet, "/messages", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec).Data["messages"], 1)

	rec = env.do(t, http.MethodPut, "/messages/edit/"+id, map[string]string{"name": "bye"}, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bye", decodeResponse(t, rec).Data["message"].(map[string]any)["name"])

	rec = env.do(t, http.MethodGet, "/messages/not-an-id", nil, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/messages/delete/"+id, nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Message deleted", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodGet, "/messages/"+id, nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfile(t *testing.T) {
	env := NewTestApplication(t)
	_, cookie := env.signedIn(t, "neo@gmail.com")

	rec := env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "secret", "newPassword": "other"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "secret"}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "secret", "newPassword": "secret"}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "New password cannot be equal to old password", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "wrong", "newPassword": "other"}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Incorrect password", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "secret", "newPassword": "other"}, withCookie(cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated", decodeResponse(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/profile", nil, withCookie(cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPut, "/profile", map[string]string{"oldPassword": "other", "newPassword": "third"}, withCookie(cookie))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoutes(t *testing.T) {
	env := NewTestApplication(t)

	rec := env.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Page not found", resp.Message)

	rec = env.do(t, http.MethodDelete, "/users/register", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
