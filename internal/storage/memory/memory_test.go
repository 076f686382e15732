package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"social-media-api/internal/storage"
)

func TestCreateAccount(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, storage.Account{Username: "alice", Password: "pass1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), a.ID)

	b, err := s.CreateAccount(ctx, storage.Account{Username: "bob", Password: "pass2"})
	require.NoError(t, err)
	require.Equal(t, int64(2), b.ID)

	_, err = s.CreateAccount(ctx, storage.Account{Username: "alice", Password: "other"})
	require.Equal(t, storage.ErrAccountExists, err)
}

func TestCreateAccountConcurrentSameUsername(t *testing.T) {
	s := New()

	n := 20
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateAccount(context.Background(), storage.Account{Username: "alice", Password: "pass1"})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		require.Equal(t, storage.ErrAccountExists, err)
	}
	require.Equal(t, 1, created)
}

func TestAccountLookups(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, storage.Account{Username: "alice", Password: "pass1"})
	require.NoError(t, err)

	got, err := s.AccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a, got)

	got, err = s.AccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, a, got)

	got, err = s.AccountByCredentials(ctx, "alice", "pass1")
	require.NoError(t, err)
	require.Equal(t, a, got)

	_, err = s.AccountByCredentials(ctx, "alice", "pass")
	require.Equal(t, storage.ErrNotFound, err)
	_, err = s.AccountByCredentials(ctx, "alic", "pass1")
	require.Equal(t, storage.ErrNotFound, err)
	_, err = s.AccountByID(ctx, 42)
	require.Equal(t, storage.ErrNotFound, err)
	_, err = s.AccountByUsername(ctx, "bob")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestMessages(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice, err := s.CreateAccount(ctx, storage.Account{Username: "alice", Password: "pass1"})
	require.NoError(t, err)
	bob, err := s.CreateAccount(ctx, storage.Account{Username: "bob", Password: "pass2"})
	require.NoError(t, err)

	_, err = s.CreateMessage(ctx, storage.Message{PostedBy: 99, Text: "hi"})
	require.Equal(t, storage.ErrAccountNotExist, err)

	m1, err := s.CreateMessage(ctx, storage.Message{PostedBy: alice.ID, Text: "one", TimePostedEpoch: 10})
	require.NoError(t, err)
	m2, err := s.CreateMessage(ctx, storage.Message{PostedBy: bob.ID, Text: "two"})
	require.NoError(t, err)
	m3, err := s.CreateMessage(ctx, storage.Message{PostedBy: alice.ID, Text: "three"})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, []int64{m1.ID, m2.ID, m3.ID})

	all, err := s.Messages(ctx)
	require.NoError(t, err)
	require.Equal(t, []storage.Message{m1, m2, m3}, all)

	byAlice, err := s.MessagesByAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, []storage.Message{m1, m3}, byAlice)

	none, err := s.MessagesByAccount(ctx, 99)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	updated, err := s.UpdateMessageText(ctx, m1.ID, "uno")
	require.NoError(t, err)
	require.Equal(t, "uno", updated.Text)
	require.Equal(t, int64(10), updated.TimePostedEpoch)

	_, err = s.UpdateMessageText(ctx, 99, "x")
	require.Equal(t, storage.ErrNotFound, err)

	deleted, err := s.DeleteMessage(ctx, m2.ID)
	require.NoError(t, err)
	require.Equal(t, m2, deleted)

	_, err = s.DeleteMessage(ctx, m2.ID)
	require.Equal(t, storage.ErrNotFound, err)
	_, err = s.MessageByID(ctx, m2.ID)
	require.Equal(t, storage.ErrNotFound, err)

	all, err = s.Messages(ctx)
	require.NoError(t, err)
	require.Equal(t, []storage.Message{updated, m3}, all)

	// ids are never reused after deletion
	m4, err := s.CreateMessage(ctx, storage.Message{PostedBy: bob.ID, Text: "four"})
	require.NoError(t, err)
	require.Equal(t, int64(4), m4.ID)
}
