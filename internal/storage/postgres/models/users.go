package models

import (
	"context"
	"errors"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/storage"
	"moviehub/proj/internal/storage/postgres"
	"time"

	"github.com/jackc/pgx/v5"
)

type UserModel struct {
	DB postgres.DBTX
}

const userColumns = `id, email, username, password, creation_date::text`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreationDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(m.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(m.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (m *UserModel) Insert(ctx context.Context, email, username string, passwordHash []byte, creationDate time.Time) (*models.User, error) {
	user, err := scanUser(m.DB.QueryRow(
		ctx,
		"INSERT INTO users (email, username, password, creation_date) VALUES ($1, $2, $3, $4) RETURNING "+userColumns,
		email,
		username,
		passwordHash,
		creationDate,
	))
	if err != nil {
		if postgres.IsConflict(err) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (m *UserModel) InsertAddress(ctx context.Context, address models.Address) error {
	_, err := m.DB.Exec(
		ctx,
		"INSERT INTO addresses (email, country, city, street) VALUES ($1, $2, $3, $4)",
		address.Email,
		address.Country,
		address.City,
		address.Street,
	)
	if postgres.IsConflict(err) {
		return storage.ErrConflict
	}
	return err
}

func (m *UserModel) UpdatePassword(ctx context.Context, email string, passwordHash []byte) error {
	status, err := m.DB.Exec(ctx, "UPDATE users SET password = $1 WHERE email = $2", passwordHash, email)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
