package main

import (
	"errors"
	"moviehub/proj/internal/services/messages"
	"moviehub/proj/internal/sessions"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// messageError maps lookup failures shared by get, edit and delete.
func (app *Application) messageError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, messages.ErrInvalidID):
		app.Http.BadRequest(w, r, "Invalid message id")
	case errors.Is(err, messages.ErrMessageNotFound):
		app.Http.NotFound(w, r, "Message not found")
	case errors.Is(err, messages.ErrEmptyName):
		app.Http.BadRequest(w, r, "missing information")
	default:
		app.Http.ServerError(w, r, err, fallback)
	}
}

func (app *Application) addMessage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message *struct {
			Name string `json:"name"`
		} `json:"message"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if input.Message == nil || strings.TrimSpace(input.Message.Name) == "" {
		app.Http.BadRequest(w, r, "missing information")
		return
	}
	user, err := app.sessions.Read(r.Context(), r)
	if err != nil {
		if errors.Is(err, sessions.ErrNoSession) {
			app.Http.Response(w, r, nil, "You are not authenticated", http.StatusInternalServerError)
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	msg, err := app.services.Messages.Add(r.Context(), input.Message.Name, user.ID)
	if err != nil {
		app.messageError(w, r, err, "Failed to add message")
		return
	}
	app.Http.Ok(w, r, envelop{"message": msg}, "")
}

func (app *Application) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := app.services.Messages.List(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "Error while getting messages")
		return
	}
	app.Http.Ok(w, r, envelop{"messages": msgs}, "")
}

func (app *Application) getMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := app.services.Messages.Get(r.Context(), chi.URLParam(r, "messageId"))
	if err != nil {
		app.messageError(w, r, err, "Error while getting message")
		return
	}
	app.Http.Ok(w, r, envelop{"message": msg}, "")
}

func (app *Application) editMessage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		app.Http.BadRequest(w, r, "missing information")
		return
	}
	msg, err := app.services.Messages.Edit(r.Context(), chi.URLParam(r, "messageId"), input.Name)
	if err != nil {
		app.messageError(w, r, err, "Failed to update message")
		return
	}
	app.Http.Ok(w, r, envelop{"message": msg}, "")
}

func (app *Application) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Messages.Delete(r.Context(), chi.URLParam(r, "messageId")); err != nil {
		app.messageError(w, r, err, "Failed to delete message")
		return
	}
	app.Http.Ok(w, r, nil, "Message deleted")
}
