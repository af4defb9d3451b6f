package services

import (
	"context"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/services/auth"
	"moviehub/proj/internal/services/comments"
	"moviehub/proj/internal/services/messages"
	"moviehub/proj/internal/services/movies"
	"moviehub/proj/internal/services/ratings"
	"moviehub/proj/internal/services/users"
	"moviehub/proj/internal/storage/mongodb"
	"moviehub/proj/internal/storage/postgres"
	pgmodels "moviehub/proj/internal/storage/postgres/models"
)

type AuthService interface {
	Register(ctx context.Context, p users.RegisterParams) (*models.User, error)
	Signup(ctx context.Context, email, username, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
}

type MovieService interface {
	Grouped(ctx context.Context) (map[string][]models.Movie, error)
	ByCategory(ctx context.Context, category string) ([]models.Movie, error)
	TopRated(ctx context.Context) ([]models.Movie, error)
	SeenBy(ctx context.Context, email string) ([]models.Movie, error)
}

type RatingService interface {
	Submit(ctx context.Context, user models.Identity, movieID int, rating int) (float64, error)
}

type CommentService interface {
	Add(ctx context.Context, p comments.AddParams) (*models.Comment, error)
	ForMovie(ctx context.Context, movieID int) ([]models.Comment, error)
}

type MessageService interface {
	Add(ctx context.Context, name string, userID int64) (*models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Message, error)
	Get(ctx context.Context, id string) (*models.Message, error)
	Edit(ctx context.Context, id, name string) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

type Services struct {
	Auth     AuthService
	Users    UserService
	Movies   MovieService
	Ratings  RatingService
	Comments CommentService
	Messages MessageService
}

type Deps struct {
	Postgres     *postgres.PostgresDB
	Mongo        *mongodb.MongoDB
	Tokens       *auth.TokenManager
	Hasher       users.PasswordHasher
	Mailer       auth.MailProvider
	TaskExecutor auth.TaskExecutor
}

func New(log *slog.Logger, deps Deps) *Services {
	userService := users.New(log, deps.Postgres, deps.Hasher)
	return &Services{
		Auth:     auth.New(log, userService, deps.Tokens, deps.Mailer, deps.TaskExecutor),
		Users:    userService,
		Movies:   movies.New(log, pgmodels.New(deps.Postgres.Conn).Movies),
		Ratings:  ratings.New(log, deps.Postgres),
		Comments: comments.New(log, deps.Mongo.Comments),
		Messages: messages.New(log, deps.Mongo.Messages),
	}
}
