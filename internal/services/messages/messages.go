package messages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/storage"
	"strings"
	"time"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidID       = errors.New("invalid message id")
	ErrEmptyName       = errors.New("message name is required")
)

type MessagesStorage interface {
	Insert(ctx context.Context, msg *models.Message) (*models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Message, error)
	Get(ctx context.Context, id string) (*models.Message, error)
	UpdateName(ctx context.Context, id, name string) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

type MessageService struct {
	log     *slog.Logger
	storage MessagesStorage
	now     func() time.Time
}

func New(log *slog.Logger, storage MessagesStorage) *MessageService {
	return &MessageService{log: log, storage: storage, now: time.Now}
}

func (s *MessageService) Add(ctx context.Context, name string, userID int64) (*models.Message, error) {
	const op = "messages.MessageService.Add"
	log := s.log.With("op", op, "user_id", userID)
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	now := s.now().UTC()
	msg, err := s.storage.Insert(ctx, &models.Message{
		Name:      name,
		User:      &userID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	const op = "messages.MessageService.List"
	msgs, err := s.storage.List(ctx)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return msgs, nil
}

func (s *MessageService) ListByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	const op = "messages.MessageService.ListByUser"
	msgs, err := s.storage.ListByUser(ctx, userID)
	if err != nil {
		s.log.With("op", op, "user_id", userID).Error(err.Error())
		return nil, err
	}
	return msgs, nil
}

func (s *MessageService) Get(ctx context.Context, id string) (*models.Message, error) {
	const op = "messages.MessageService.Get"
	msg, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, s.translate(op, err)
	}
	return msg, nil
}

func (s *MessageService) Edit(ctx context.Context, id, name string) (*models.Message, error) {
	const op = "messages.MessageService.Edit"
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	msg, err := s.storage.UpdateName(ctx, id, name)
	if err != nil {
		return nil, s.translate(op, err)
	}
	return msg, nil
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	const op = "messages.MessageService.Delete"
	if err := s.storage.Delete(ctx, id); err != nil {
		return s.translate(op, err)
	}
	return nil
}

func (s *MessageService) translate(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		return fmt.Errorf("%s: %w", op, ErrInvalidID)
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrMessageNotFound)
	default:
		s.log.With("op", op).Error(err.Error())
		return err
	}
}
