package service

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"social-media-api/internal/storage"
	"unicode/utf8"
)

// MessageService validates and persists messages
type MessageService struct {
	logger   *zap.SugaredLogger
	accounts storage.AccountStore
	messages storage.MessageStore
}

func NewMessageService(logger *zap.SugaredLogger, accounts storage.AccountStore, messages storage.MessageStore) *MessageService {
	return &MessageService{
		logger:   logger,
		accounts: accounts,
		messages: messages,
	}
}

func validText(text string) bool {
	if !utf8.ValidString(text) {
		return false
	}
	n := utf8.RuneCountInString(text)
	return n > 0 && n <= MaxMessageLength
}

// Create stores the candidate if its text is valid and its author exists
func (s *MessageService) Create(ctx context.Context, candidate storage.Message) (storage.Message, error) {
	if !validText(candidate.Text) {
		return storage.Message{}, ErrInvalidText
	}

	if _, err := s.accounts.AccountByID(ctx, candidate.PostedBy); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Message{}, ErrUnknownAuthor
		}
		return storage.Message{}, fmt.Errorf("looking up author: %w", err)
	}

	candidate.ID = 0
	m, err := s.messages.CreateMessage(ctx, candidate)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotExist) {
			return storage.Message{}, ErrUnknownAuthor
		}
		return storage.Message{}, fmt.Errorf("creating message: %w", err)
	}

	s.logger.Debugf("Created message (id: %d) posted by account (id: %d)", m.ID, m.PostedBy)

	return m, nil
}

// GetAll returns every message in insertion order
func (s *MessageService) GetAll(ctx context.Context) ([]storage.Message, error) {
	messages, err := s.messages.Messages(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) GetByID(ctx context.Context, id int64) (storage.Message, error) {
	m, err := s.messages.MessageByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Message{}, ErrNotFound
		}
		return storage.Message{}, fmt.Errorf("retrieving message %d: %w", id, err)
	}
	return m, nil
}

// GetAllByUser returns messages posted by the account, empty if there are none
func (s *MessageService) GetAllByUser(ctx context.Context, accountID int64) ([]storage.Message, error) {
	messages, err := s.messages.MessagesByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("retrieving messages of account %d: %w", accountID, err)
	}
	if messages == nil {
		messages = []storage.Message{}
	}
	return messages, nil
}

// DeleteByID removes the message and returns it as it was before deletion
func (s *MessageService) DeleteByID(ctx context.Context, id int64) (storage.Message, error) {
	m, err := s.messages.DeleteMessage(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Message{}, ErrNotFound
		}
		return storage.Message{}, fmt.Errorf("deleting message %d: %w", id, err)
	}

	s.logger.Debugf("Deleted message (id: %d)", id)

	return m, nil
}

// Edit replaces message text. Text is validated before the id is looked up,
// both failures match ErrInvalid.
func (s *MessageService) Edit(ctx context.Context, id int64, text string) (storage.Message, error) {
	if !validText(text) {
		return storage.Message{}, ErrInvalidText
	}

	m, err := s.messages.UpdateMessageText(ctx, id, text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Message{}, ErrMessageNotFound
		}
		return storage.Message{}, fmt.Errorf("updating message %d: %w", id, err)
	}

	return m, nil
}
