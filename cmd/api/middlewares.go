package main

import (
	"context"
	"errors"
	"fmt"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/metrics"
	"moviehub/proj/internal/services/auth"
	"moviehub/proj/internal/sessions"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				w.Header().Set("Connection", "close")
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	clients := make(map[string]*client)
	var mu sync.Mutex
	app.bg.Add(1)
	go func() {
		defer app.bg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-app.done:
				return
			case <-ticker.C:
			}
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.cfg.Limiter.Enabled {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst)}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()
			if !allowed {
				log.Warn("rate limit exceeded", "ip", ip)
				app.Http.TooManyRequests(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (app *Application) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-DNS-Prefetch-Control", "off")
		next.ServeHTTP(w, r)
	})
}

// instrument records the matched route pattern, so ids in paths do not
// explode label cardinality.
func (app *Application) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, route, status, time.Since(start))
	})
}

type CtxKey string

const (
	CtxKeyIdentity    CtxKey = "identity"
	CtxKeySessionUser CtxKey = "sessionUser"
)

// requireToken admits requests carrying a valid bearer token and stores its
// identity in the request context.
func (app *Application) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := app.tokens.Verify(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				app.Http.Unauthorized(w, r, "Unauthorized")
				return
			}
			app.Http.setupLogPerReq(r).Info("token rejected", "reason", err.Error())
			app.Http.Unauthorized(w, r, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), CtxKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSession admits requests with a live session snapshot. The failure
// status differs between route families, so it is a parameter.
func (app *Application) requireSession(status int, msg string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := app.sessions.Read(r.Context(), r)
			switch {
			case errors.Is(err, sessions.ErrNoSession):
				app.Http.Response(w, r, nil, msg, status)
				return
			case err != nil:
				app.Http.ServerError(w, r, err, "")
				return
			}
			ctx := context.WithValue(r.Context(), CtxKeySessionUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromCtx(r *http.Request) models.Identity {
	identity, ok := r.Context().Value(CtxKeyIdentity).(*models.Identity)
	if !ok || identity == nil {
		panic("identity missing from request context")
	}
	return *identity
}

func sessionUserFromCtx(r *http.Request) models.SessionUser {
	user, ok := r.Context().Value(CtxKeySessionUser).(*models.SessionUser)
	if !ok || user == nil {
		panic("session user missing from request context")
	}
	return *user
}
