package models

import (
	"context"
	"moviehub/proj/internal/storage/postgres"
)

type RatingModel struct {
	DB postgres.DBTX
}

func (m *RatingModel) Insert(ctx context.Context, email string, movieID int, rating int) error {
	_, err := m.DB.Exec(
		ctx,
		"INSERT INTO ratings (email, movie_id, rating) VALUES ($1, $2, $3)",
		email,
		movieID,
		rating,
	)
	return err
}

// Average returns the mean of every rating stored for the movie.
func (m *RatingModel) Average(ctx context.Context, movieID int) (float64, error) {
	var avg float64
	err := m.DB.QueryRow(
		ctx,
		"SELECT COALESCE(AVG(rating), 0)::float8 FROM ratings WHERE movie_id = $1",
		movieID,
	).Scan(&avg)
	return avg, err
}
