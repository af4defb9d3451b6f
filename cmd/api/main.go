package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"moviehub/proj/internal/api/tasks"
	"moviehub/proj/internal/config"
	"moviehub/proj/internal/lib/logger"
	"moviehub/proj/internal/mails"
	"moviehub/proj/internal/metrics"
	"moviehub/proj/internal/services"
	"moviehub/proj/internal/services/auth"
	"moviehub/proj/internal/services/users"
	"moviehub/proj/internal/sessions"
	"moviehub/proj/internal/storage/mongodb"
	"moviehub/proj/internal/storage/postgres"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	migrate := flag.Bool("migrate", false, "apply database migrations before starting")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	if *migrate {
		applied, err := postgres.Migrate(cfg.DB.Dsn)
		if err != nil {
			log.Error("failed to apply migrations", "errMsg", err.Error())
			os.Exit(1)
		}
		log.Info("migrations checked", "applied", applied)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout+2*time.Second)
	defer cancel()
	pg, err := postgres.New(ctx, log, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime, cfg.DB.AcquireTimeout)
	if err != nil {
		panic(err)
	}
	log.Info("database connection established")
	mongo, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		panic(err)
	}
	log.Info("document store connection established", "database", cfg.Mongo.Database)

	store, err := openSessionStore(cfg.Session)
	if err != nil {
		panic(err)
	}
	sessionManager := sessions.NewManager(log, store, sessions.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	})

	bgTasks := tasks.New(log, cfg.Tasks.Workers, cfg.Tasks.QueueSize)
	bgTasks.OnDone(metrics.RecordBackgroundTask)
	bgTasks.Run()

	var mailer auth.MailProvider = mails.NoopMailer{}
	if cfg.SMTP.Enabled {
		mailer = mails.New(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Timeout,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.Sender,
			cfg.SMTP.RetriesCount,
		)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	svc := services.New(log, services.Deps{
		Postgres:     pg,
		Mongo:        mongo,
		Tokens:       tokens,
		Hasher:       users.BcryptHasher{},
		Mailer:       mailer,
		TaskExecutor: bgTasks,
	})
	app := NewApplication(cfg, log, svc, sessionManager, tokens, map[string]Pinger{
		"postgres": pg,
		"mongodb":  mongo,
	})

	err = app.serve(func(ctx context.Context) error {
		err := bgTasks.Shutdown(ctx)
		err = errors.Join(err, mongo.Close(ctx), store.Close())
		pg.Close()
		return err
	})
	if err != nil {
		log.Error("server stopped with error", "errMsg", err.Error())
		os.Exit(1)
	}
}

func openSessionStore(cfg config.Session) (sessions.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return sessions.NewMemoryStore(time.Minute), nil
	case "badger":
		return sessions.OpenBadgerStore(cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
