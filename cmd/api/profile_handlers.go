package main

import (
	"errors"
	"moviehub/proj/internal/services/users"
	"net/http"
)

func (app *Application) editPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,max=72"`
	}
	if !app.readAndValidate(w, r, &input) {
		return
	}
	user := sessionUserFromCtx(r)
	err := app.services.Users.ChangePassword(r.Context(), user.Email, input.OldPassword, input.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingFields):
			app.Http.BadRequest(w, r, "Missing parameters")
		case errors.Is(err, users.ErrPasswordTooLong):
			app.Http.BadRequest(w, r, passwordTooLongMsg)
		case errors.Is(err, users.ErrSamePassword):
			app.Http.BadRequest(w, r, "New password cannot be equal to old password")
		case errors.Is(err, users.ErrInvalidCredentials):
			app.Http.BadRequest(w, r, "Incorrect password")
		default:
			app.Http.ServerError(w, r, err, "Exception occurred while updating password")
		}
		return
	}
	app.Http.Ok(w, r, nil, "Password updated")
}
