package main

import (
	"fmt"
	"log/slog"
	"moviehub/proj/internal/config"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const defaultServerErrMsg = "Sorry! Can't process your request. Please try again later."

type Http struct {
	log *slog.Logger
	cfg *config.Config
}

type envelop map[string]any

// Response is the only body shape the API emits, for successes and failures alike.
type Response struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    envelop `json:"data,omitempty"`
}

func processMsg(status int, msg string) string {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}

func (h *Http) setupLogPerReq(r *http.Request) *slog.Logger {
	return h.log.With(
		"request_id",
		middleware.GetReqID(r.Context()),
		"method",
		r.Method,
		"path",
		r.URL.Path,
	)
}

func (h *Http) NewResponse(data envelop, msg string, status int) *Response {
	msg = processMsg(status, msg)
	success := status >= 200 && status < 400
	return &Response{Success: success, Message: msg, Data: data}
}

func (h *Http) Response(w http.ResponseWriter, r *http.Request, data envelop, msg string, status int) {
	render.Status(r, status)
	render.JSON(w, r, h.NewResponse(data, msg, status))
}

func (h *Http) Ok(w http.ResponseWriter, r *http.Request, data envelop, msg string) {
	h.Response(w, r, data, msg, http.StatusOK)
}

func (h *Http) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusBadRequest)
}

func (h *Http) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusUnauthorized)
}

func (h *Http) Conflict(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusConflict)
}

func (h *Http) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusNotFound)
}

func (h *Http) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.Response(w, r, nil, "", http.StatusMethodNotAllowed)
}

func (h *Http) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	h.Response(w, r, envelop{"error": "rate limit exceeded"}, "Can't process request see an error below.", http.StatusTooManyRequests)
}

// ValidationFailed answers 400 with per-field messages under data.errors.
func (h *Http) ValidationFailed(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	h.Response(w, r, envelop{"errors": errors}, "Missing parameters", http.StatusBadRequest)
}

// ServerError logs err and answers 500. The body carries msg (or a generic
// text), never the error itself. Debug builds attach the stack under data.
func (h *Http) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	log := h.setupLogPerReq(r)
	if err != nil {
		log.Error(err.Error())
	}
	if msg == "" {
		msg = defaultServerErrMsg
	}
	var data envelop
	if h.cfg.Debug {
		data = envelop{"error": fmt.Sprint(err), "stack": string(debug.Stack())}
	}
	h.Response(w, r, data, msg, status)
}
