package service

import (
	"context"
	"errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"social-media-api/internal/storage"
	"social-media-api/internal/storage/memory"
	"testing"
)

var errBroken = errors.New("connection refused")

// brokenStore fails every call the way an unreachable database would
type brokenStore struct {
	*memory.Store
}

func (brokenStore) AccountByID(context.Context, int64) (storage.Account, error) {
	return storage.Account{}, errBroken
}

func (brokenStore) AccountByUsername(context.Context, string) (storage.Account, error) {
	return storage.Account{}, errBroken
}

func (brokenStore) AccountByCredentials(context.Context, string, string) (storage.Account, error) {
	return storage.Account{}, errBroken
}

func (brokenStore) Messages(context.Context) ([]storage.Message, error) {
	return nil, errBroken
}

func (brokenStore) DeleteMessage(context.Context, int64) (storage.Message, error) {
	return storage.Message{}, errBroken
}

func bootstrap(t *testing.T) (*AccountService, *MessageService, *memory.Store) {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	store := memory.New()
	return NewAccountService(logger.Sugar(), store), NewMessageService(logger.Sugar(), store, store), store
}
