package auth

import (
	"context"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/services/users"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type UserProvider interface {
	Register(ctx context.Context, p users.RegisterParams) (*models.User, error)
	Signup(ctx context.Context, email, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type LoginResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	log          *slog.Logger
	users        UserProvider
	tokens       *TokenManager
	mailer       MailProvider
	taskExecutor TaskExecutor
}

func New(
	log *slog.Logger,
	userProvider UserProvider,
	tokens *TokenManager,
	mailer MailProvider,
	taskExecutor TaskExecutor,
) *AuthService {
	return &AuthService{
		log:          log,
		users:        userProvider,
		tokens:       tokens,
		mailer:       mailer,
		taskExecutor: taskExecutor,
	}
}

func (a *AuthService) sendWelcomeEmail(user *models.User) {
	a.log.Info("sending welcome email", "user_id", user.ID)
	err := a.mailer.Send(user.Email, "user_welcome.html", map[string]any{
		"username": user.Username,
		"userID":   user.ID,
	})
	if err != nil {
		a.log.Error("Error sending welcome email", "errMsg", err.Error())
	}
}

// Register runs the registration workflow and queues a welcome email. Mail
// delivery never affects the outcome.
func (a *AuthService) Register(ctx context.Context, p users.RegisterParams) (*models.User, error) {
	const op = "auth.AuthService.Register"
	log := a.log.With("op", op, "email", p.Email)
	user, err := a.users.Register(ctx, p)
	if err != nil {
		log.Info("registration refused", "reason", err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() { a.sendWelcomeEmail(user) })
	return user, nil
}

func (a *AuthService) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	return a.users.Signup(ctx, email, username, password)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)
	user, err := a.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, err := a.tokens.Issue(models.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		log.Error("failed to sign token", "errMsg", err.Error())
		return nil, err
	}
	log.Info("user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}
