package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.instrument)
	router.Use(app.Recoverer)
	router.Use(app.secureHeaders)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(app.RateLimiter)

	loginLimiter := httprate.Limit(
		app.cfg.Limiter.LoginPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(app.Http.TooManyRequests),
	)

	router.Get("/healthcheck", app.healthcheck)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/users", func(r chi.Router) {
		r.Post("/register", app.registerUser)
		r.With(loginLimiter).Post("/login", app.loginUser)
	})
	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", app.signup)
		r.With(loginLimiter).Post("/login", app.login)
		r.Get("/logout", app.logout)
		r.With(app.requireSession(http.StatusInternalServerError, "You are not authenticated")).Get("/me", app.me)
	})
	router.Route("/movies", func(r chi.Router) {
		r.Use(app.requireToken)
		r.Get("/", app.listMovies)
		r.Get("/top", app.topRatedMovies)
		r.Get("/me", app.seenMovies)
	})
	router.Route("/ratings", func(r chi.Router) {
		r.Use(app.requireToken)
		r.Post("/{movieId}", app.addRating)
	})
	router.Route("/comments", func(r chi.Router) {
		r.Use(app.requireToken)
		r.Get("/{movie_id}", app.listComments)
		r.Post("/{movie_id}", app.addComment)
	})
	router.Route("/messages", func(r chi.Router) {
		r.Use(app.requireToken)
		r.Post("/add/message", app.addMessage)
		r.Get("/", app.listMessages)
		r.Put("/edit/{messageId}", app.editMessage)
		r.Delete("/delete/{messageId}", app.deleteMessage)
		r.Get("/{messageId}", app.getMessage)
	})
	router.Route("/profile", func(r chi.Router) {
		r.Use(app.requireSession(http.StatusUnauthorized, "You are not authenticated"))
		r.Put("/", app.editPassword)
		r.Post("/", app.logout)
	})
	return router
}
