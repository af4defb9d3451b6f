package main

import (
	"errors"
	"moviehub/proj/internal/services/users"
	"net/http"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,notblank"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,max=72"`
	}
	if !app.readAndValidate(w, r, &input) {
		return
	}
	user, err := app.services.Auth.Signup(r.Context(), input.Email, input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingFields):
			app.Http.BadRequest(w, r, "missing information")
		case errors.Is(err, users.ErrPasswordTooLong):
			app.Http.BadRequest(w, r, passwordTooLongMsg)
		case errors.Is(err, users.ErrUserAlreadyExists):
			app.Http.Conflict(w, r, "User already has an account")
		default:
			app.Http.ServerError(w, r, err, "failed to save user")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
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
		case errors.Is(err, users.ErrUserNotFound):
			app.Http.BadRequest(w, r, "User not found")
		case errors.Is(err, users.ErrInvalidCredentials):
			app.Http.BadRequest(w, r, "Email or password do not match")
		default:
			app.Http.ServerError(w, r, err, "Failed to get user")
		}
		return
	}
	if !app.establishSession(w, r, result.User) {
		return
	}
	app.Http.Ok(w, r, envelop{"token": result.Token}, "")
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	current := sessionUserFromCtx(r)
	user, err := app.services.Users.GetByID(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			app.Http.BadRequest(w, r, "User not found")
			return
		}
		app.Http.ServerError(w, r, err, "Failed to get user")
		return
	}
	msgs, err := app.services.Messages.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.Http.ServerError(w, r, err, "Failed to get user")
		return
	}
	app.Http.Ok(w, r, envelop{"user": user, "messages": msgs}, "")
}

// logout always succeeds from the client's point of view.
func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Clear(r.Context(), w, r); err != nil {
		app.Http.setupLogPerReq(r).Error("failed to clear session", "errMsg", err.Error())
	}
	app.Http.Ok(w, r, nil, "Disconnected")
}
