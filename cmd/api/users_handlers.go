package main

import (
	"errors"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/metrics"
	"moviehub/proj/internal/services/users"
	"net/http"
)

const passwordTooLongMsg = "Password must not exceed 72 bytes"

func (app *Application) registerUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,notblank"`
		Password string `json:"password" validate:"required,max=72"`
		Country  string `json:"country" validate:"required,notblank"`
		City     string `json:"city"`
		Street   string `json:"street"`
	}
	if !app.readAndValidate(w, r, &input) {
		metrics.RecordRegistration("invalid")
		return
	}
	user, err := app.services.Auth.Register(r.Context(), users.RegisterParams{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
		Country:  input.Country,
		City:     input.City,
		Street:   input.Street,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingFields):
			metrics.RecordRegistration("invalid")
			app.Http.BadRequest(w, r, "Missing parameters")
		case errors.Is(err, users.ErrPasswordTooLong):
			metrics.RecordRegistration("invalid")
			app.Http.BadRequest(w, r, passwordTooLongMsg)
		case errors.Is(err, users.ErrUserAlreadyExists):
			metrics.RecordRegistration("conflict")
			app.Http.Conflict(w, r, "User already has an account")
		default:
			metrics.RecordRegistration("error")
			app.Http.ServerError(w, r, err, "Exception occurred while registering user")
		}
		return
	}
	metrics.RecordRegistration("created")
	app.Http.Ok(w, r, envelop{"user": user}, "User created")
}

func (app *Application) loginUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !app.readAndValidate(w, r, &input) {
		return
	}
	result, err := app.services.Auth.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound), errors.Is(err, users.ErrInvalidCredentials):
			app.Http.NotFound(w, r, "Incorrect email/password")
		default:
			app.Http.ServerError(w, r, err, "Exception occurred while logging in")
		}
		return
	}
	if !app.establishSession(w, r, result.User) {
		return
	}
	app.Http.Ok(w, r, envelop{"token": result.Token, "username": result.User.Username}, "")
}

func (app *Application) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	err := app.sessions.Establish(r.Context(), w, r, models.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return false
	}
	return true
}
