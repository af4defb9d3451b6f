package main

import (
	"context"
	"log/slog"
	"moviehub/proj/internal/config"
	"moviehub/proj/internal/lib/decoder"
	"moviehub/proj/internal/lib/validator"
	"moviehub/proj/internal/services"
	"moviehub/proj/internal/services/auth"
	"moviehub/proj/internal/sessions"
	"sync"

	govalidator "github.com/go-playground/validator/v10"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	sessions  *sessions.Manager
	tokens    *auth.TokenManager
	validator *govalidator.Validate
	decoder   *decoder.URLDecoder
	stores    map[string]Pinger

	// done stops goroutines owned by middlewares; bg tracks them.
	done     chan struct{}
	bg       sync.WaitGroup
	stopOnce sync.Once
}

func NewApplication(
	cfg *config.Config,
	log *slog.Logger,
	svc *services.Services,
	sessionManager *sessions.Manager,
	tokens *auth.TokenManager,
	stores map[string]Pinger,
) *Application {
	return &Application{
		cfg:       cfg,
		log:       log,
		services:  svc,
		sessions:  sessionManager,
		tokens:    tokens,
		validator: validator.New(),
		decoder:   decoder.New(false),
		stores:    stores,
		done:      make(chan struct{}),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}

// stopBackground signals middleware goroutines to exit and waits for them.
func (app *Application) stopBackground() {
	app.stopOnce.Do(func() { close(app.done) })
	app.bg.Wait()
}
