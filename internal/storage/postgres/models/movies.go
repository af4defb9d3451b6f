package models

import (
	"context"
	"errors"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/storage"
	"moviehub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

type MovieModel struct {
	DB postgres.DBTX
}

const movieColumns = `m.movie_id, m.title, m.type, m.release_date::text AS release_date, m.rating`

func (m *MovieModel) collect(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := m.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

func (m *MovieModel) List(ctx context.Context) ([]models.Movie, error) {
	return m.collect(ctx, "SELECT "+movieColumns+" FROM movies m ORDER BY m.type, m.movie_id")
}

func (m *MovieModel) ListByType(ctx context.Context, movieType string) ([]models.Movie, error) {
	return m.collect(
		ctx,
		"SELECT "+movieColumns+" FROM movies m WHERE m.type = $1 ORDER BY m.release_date DESC NULLS LAST",
		movieType,
	)
}

func (m *MovieModel) Top(ctx context.Context, limit int) ([]models.Movie, error) {
	return m.collect(ctx, "SELECT "+movieColumns+" FROM movies m ORDER BY m.rating DESC LIMIT $1", limit)
}

func (m *MovieModel) SeenBy(ctx context.Context, email string) ([]models.Movie, error) {
	return m.collect(
		ctx,
		"SELECT "+movieColumns+" FROM seen_movies s JOIN movies m ON s.movie_id = m.movie_id WHERE s.email = $1 ORDER BY s.seen_at DESC",
		email,
	)
}

// LockForUpdate takes a row lock on the movie for the rest of the transaction.
func (m *MovieModel) LockForUpdate(ctx context.Context, movieID int) error {
	var id int
	err := m.DB.QueryRow(ctx, "SELECT movie_id FROM movies WHERE movie_id = $1 FOR UPDATE", movieID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func (m *MovieModel) SetRating(ctx context.Context, movieID int, rating float64) error {
	status, err := m.DB.Exec(ctx, "UPDATE movies SET rating = $1 WHERE movie_id = $2", rating, movieID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
