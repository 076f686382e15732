// Package memory provides a map-backed implementation of the storage interfaces.
// It is safe for concurrent use and is intended for tests and local runs.
package memory

import (
	"context"
	"sync"

	"social-media-api/internal/storage"
)

// Store keeps accounts and messages in process memory
type Store struct {
	mu            sync.RWMutex
	nextAccountID int64
	nextMessageID int64
	accounts      map[int64]storage.Account
	usernames     map[string]int64
	messages      map[int64]storage.Message
	order         []int64 // message ids in insertion order
}

var (
	_ storage.AccountStore = (*Store)(nil)
	_ storage.MessageStore = (*Store)(nil)
)

// New creates an empty store, ids start from 1
func New() *Store {
	return &Store{
		nextAccountID: 1,
		nextMessageID: 1,
		accounts:      make(map[int64]storage.Account),
		usernames:     make(map[string]int64),
		messages:      make(map[int64]storage.Message),
	}
}

func (s *Store) AccountByID(_ context.Context, id int64) (storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return storage.Account{}, storage.ErrNotFound
	}
	return a, nil
}

func (s *Store) AccountByUsername(_ context.Context, username string) (storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return storage.Account{}, storage.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) AccountByCredentials(_ context.Context, username, password string) (storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok || s.accounts[id].Password != password {
		return storage.Account{}, storage.ErrNotFound
	}
	return s.accounts[id], nil
}

// CreateAccount checks the username and inserts under a single lock
func (s *Store) CreateAccount(_ context.Context, a storage.Account) (storage.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[a.Username]; exists {
		return storage.Account{}, storage.ErrAccountExists
	}

	a.ID = s.nextAccountID
	s.nextAccountID++
	s.accounts[a.ID] = a
	s.usernames[a.Username] = a.ID
	return a, nil
}

func (s *Store) MessageByID(_ context.Context, id int64) (storage.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return storage.Message{}, storage.ErrNotFound
	}
	return m, nil
}

func (s *Store) Messages(_ context.Context) ([]storage.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]storage.Message, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.messages[id])
	}
	return res, nil
}

func (s *Store) MessagesByAccount(_ context.Context, accountID int64) ([]storage.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]storage.Message, 0)
	for _, id := range s.order {
		if m := s.messages[id]; m.PostedBy == accountID {
			res = append(res, m)
		}
	}
	return res, nil
}

// CreateMessage mirrors the foreign key on message.posted_by
func (s *Store) CreateMessage(_ context.Context, m storage.Message) (storage.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[m.PostedBy]; !ok {
		return storage.Message{}, storage.ErrAccountNotExist
	}

	m.ID = s.nextMessageID
	s.nextMessageID++
	s.messages[m.ID] = m
	s.order = append(s.order, m.ID)
	return m, nil
}

func (s *Store) UpdateMessageText(_ context.Context, id int64, text string) (storage.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return storage.Message{}, storage.ErrNotFound
	}
	m.Text = text
	s.messages[id] = m
	return m, nil
}

func (s *Store) DeleteMessage(_ context.Context, id int64) (storage.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return storage.Message{}, storage.ErrNotFound
	}
	delete(s.messages, id)

	filtered := s.order[:0]
	for _, item := range s.order {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	s.order = filtered
	return m, nil
}
