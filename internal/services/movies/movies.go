package movies

import (
	"context"
	"log/slog"
	"moviehub/proj/internal/domain/models"
)

const TopLimit = 10

type MoviesStorage interface {
	List(ctx context.Context) ([]models.Movie, error)
	ListByType(ctx context.Context, movieType string) ([]models.Movie, error)
	Top(ctx context.Context, limit int) ([]models.Movie, error)
	SeenBy(ctx context.Context, email string) ([]models.Movie, error)
}

type MovieService struct {
	log     *slog.Logger
	storage MoviesStorage
}

func New(log *slog.Logger, storage MoviesStorage) *MovieService {
	return &MovieService{
		log:     log,
		storage: storage,
	}
}

// Grouped returns every movie keyed by its type.
func (s *MovieService) Grouped(ctx context.Context) (map[string][]models.Movie, error) {
	const op = "movies.MovieService.Grouped"
	log := s.log.With("op", op)
	movies, err := s.storage.List(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	grouped := make(map[string][]models.Movie)
	for _, movie := range movies {
		grouped[movie.Type] = append(grouped[movie.Type], movie)
	}
	return grouped, nil
}

func (s *MovieService) ByCategory(ctx context.Context, category string) ([]models.Movie, error) {
	const op = "movies.MovieService.ByCategory"
	log := s.log.With("op", op, "category", category)
	movies, err := s.storage.ListByType(ctx, category)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}

func (s *MovieService) TopRated(ctx context.Context) ([]models.Movie, error) {
	const op = "movies.MovieService.TopRated"
	log := s.log.With("op", op)
	movies, err := s.storage.Top(ctx, TopLimit)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}

func (s *MovieService) SeenBy(ctx context.Context, email string) ([]models.Movie, error) {
	const op = "movies.MovieService.SeenBy"
	log := s.log.With("op", op, "email", email)
	movies, err := s.storage.SeenBy(ctx, email)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}
