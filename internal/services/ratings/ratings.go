package ratings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/storage"
	"moviehub/proj/internal/storage/postgres"
	pgmodels "moviehub/proj/internal/storage/postgres/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Transactor interface {
	WithTx(ctx context.Context, fn func(tx postgres.DBTX) error) error
}

type RatingService struct {
	log *slog.Logger
	db  Transactor
}

func New(log *slog.Logger, db Transactor) *RatingService {
	return &RatingService{log: log, db: db}
}

// Submit records a rating and refreshes the movie's average in the same
// transaction. The movie row stays locked until commit, so concurrent
// submissions for one movie are applied one after another.
func (s *RatingService) Submit(ctx context.Context, user models.Identity, movieID int, rating int) (float64, error) {
	const op = "ratings.RatingService.Submit"
	log := s.log.With("op", op, "movie_id", movieID, "email", user.Email)
	if movieID < 1 || rating < MinRating || rating > MaxRating || user.Email == "" {
		return 0, ErrInvalidInput
	}

	var average float64
	err := s.db.WithTx(ctx, func(tx postgres.DBTX) error {
		m := pgmodels.New(tx)
		if err := m.Movies.LockForUpdate(ctx, movieID); err != nil {
			return err
		}
		if err := m.Ratings.Insert(ctx, user.Email, movieID, rating); err != nil {
			return err
		}
		avg, err := m.Ratings.Average(ctx, movieID)
		if err != nil {
			return err
		}
		average = avg
		return m.Movies.SetRating(ctx, movieID, avg)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return 0, ErrMovieNotFound
		}
		log.Error("rating aggregation rolled back", "errMsg", err.Error())
		return 0, fmt.Errorf("%w: %w", ErrAggregationFailed, err)
	}
	log.Info("rating added", "average", average)
	return average, nil
}
