package comments

import (
	"context"
	"errors"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"time"
)

var ErrInvalidComment = errors.New("invalid comment")

type CommentsStorage interface {
	Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListForMovie(ctx context.Context, movieID int) ([]models.Comment, error)
}

type CommentService struct {
	log     *slog.Logger
	storage CommentsStorage
	now     func() time.Time
}

func New(log *slog.Logger, storage CommentsStorage) *CommentService {
	return &CommentService{log: log, storage: storage, now: time.Now}
}

type AddParams struct {
	MovieID  int
	Username string
	Comment  string
	Title    string
	Rating   int
}

func (s *CommentService) Add(ctx context.Context, p AddParams) (*models.Comment, error) {
	const op = "comments.CommentService.Add"
	log := s.log.With("op", op, "movie_id", p.MovieID)
	if p.MovieID < 1 || p.Username == "" || p.Comment == "" || p.Title == "" || p.Rating < 1 || p.Rating > 5 {
		return nil, ErrInvalidComment
	}
	comment, err := s.storage.Insert(ctx, &models.Comment{
		MovieID:   p.MovieID,
		Username:  p.Username,
		Comment:   p.Comment,
		Title:     p.Title,
		Rating:    p.Rating,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ForMovie(ctx context.Context, movieID int) ([]models.Comment, error) {
	const op = "comments.CommentService.ForMovie"
	log := s.log.With("op", op, "movie_id", movieID)
	comments, err := s.storage.ListForMovie(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return comments, nil
}
