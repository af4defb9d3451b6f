package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/storage"
	"moviehub/proj/internal/storage/postgres"
	pgmodels "moviehub/proj/internal/storage/postgres/models"
	"time"
)

type UserService struct {
	log    *slog.Logger
	db     *postgres.PostgresDB
	hasher PasswordHasher
	now    func() time.Time
}

func New(log *slog.Logger, db *postgres.PostgresDB, hasher PasswordHasher) *UserService {
	return &UserService{
		log:    log,
		db:     db,
		hasher: hasher,
		now:    time.Now,
	}
}

type RegisterParams struct {
	Email    string
	Username string
	Password string
	Country  string
	City     string
	Street   string
}

// Register creates the user and its address in one transaction. The creation
// date is always stamped by the server.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if p.Email == "" || p.Username == "" || p.Password == "" || p.Country == "" {
		return nil, ErrMissingFields
	}
	if len(p.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	return s.create(ctx, p)
}

// Signup registers an account without address details; an empty address row
// is still written so every user owns exactly one address.
func (s *UserService) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	if email == "" || username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	return s.create(ctx, RegisterParams{Email: email, Username: username, Password: password})
}

func (s *UserService) create(ctx context.Context, p RegisterParams) (*models.User, error) {
	const op = "users.UserService.create"
	log := s.log.With("op", op, "email", p.Email)

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		log.Error("failed to hash password", "errMsg", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	creationDate := s.now().UTC().Truncate(24 * time.Hour)

	var user *models.User
	err = s.db.WithTx(ctx, func(tx postgres.DBTX) error {
		m := pgmodels.New(tx)
		exists, err := m.Users.ExistsByEmail(ctx, p.Email)
		if err != nil {
			return err
		}
		if exists {
			return storage.ErrConflict
		}
		user, err = m.Users.Insert(ctx, p.Email, p.Username, hash, creationDate)
		if err != nil {
			return err
		}
		log.Debug("user row inserted", "user_id", user.ID)
		return m.Users.InsertAddress(ctx, models.Address{
			Email:   p.Email,
			Country: p.Country,
			City:    p.City,
			Street:  p.Street,
		})
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		}
		log.Error("registration rolled back", "errMsg", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate returns ErrUserNotFound for an unknown email and
// ErrInvalidCredentials for a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	const op = "users.UserService.Authenticate"
	log := s.log.With("op", op, "email", email)
	user, err := pgmodels.New(s.db.Conn).Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	if !s.hasher.Matches(user.PasswordHash, password) {
		log.Info("password mismatch")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "users.UserService.GetByID"
	log := s.log.With("op", op, "id", id)
	user, err := pgmodels.New(s.db.Conn).Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	const op = "users.UserService.ChangePassword"
	log := s.log.With("op", op, "email", email)
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}
	if len(newPassword) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	user, err := s.Authenticate(ctx, email, oldPassword)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		log.Error("failed to hash password", "errMsg", err.Error())
		return err
	}
	if err := pgmodels.New(s.db.Conn).Users.UpdatePassword(ctx, user.Email, hash); err != nil {
		log.Error(err.Error())
		return err
	}
	log.Info("password updated")
	return nil
}
