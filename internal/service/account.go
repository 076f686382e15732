package service

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"social-media-api/internal/storage"
	"unicode/utf8"
)

// AccountService registers accounts and verifies logins.
// Passwords are stored and compared in plaintext, which is not suitable for production.
type AccountService struct {
	logger   *zap.SugaredLogger
	accounts storage.AccountStore
}

func NewAccountService(logger *zap.SugaredLogger, accounts storage.AccountStore) *AccountService {
	return &AccountService{
		logger:   logger,
		accounts: accounts,
	}
}

// Register validates the candidate and stores it, returning the account with its generated id
func (s *AccountService) Register(ctx context.Context, candidate storage.Account) (storage.Account, error) {
	if candidate.Username == "" || !utf8.ValidString(candidate.Username) {
		return storage.Account{}, ErrInvalidUsername
	}
	if !utf8.ValidString(candidate.Password) || utf8.RuneCountInString(candidate.Password) < MinPasswordLength {
		return storage.Account{}, ErrInvalidPassword
	}

	_, err := s.accounts.AccountByUsername(ctx, candidate.Username)
	switch {
	case err == nil:
		return storage.Account{}, ErrUsernameTaken
	case !errors.Is(err, storage.ErrNotFound):
		return storage.Account{}, fmt.Errorf("looking up username: %w", err)
	}

	candidate.ID = 0
	account, err := s.accounts.CreateAccount(ctx, candidate)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, storage.ErrAccountExists) {
			return storage.Account{}, ErrUsernameTaken
		}
		return storage.Account{}, fmt.Errorf("creating account: %w", err)
	}

	s.logger.Infof("Registered account (%s) with id %d", account.Username, account.ID)

	return account, nil
}

// VerifyLogin returns the stored account with exactly matching username and password
func (s *AccountService) VerifyLogin(ctx context.Context, candidate storage.Account) (storage.Account, error) {
	account, err := s.accounts.AccountByCredentials(ctx, candidate.Username, candidate.Password)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debugf("Login rejected for username (%s)", candidate.Username)
			return storage.Account{}, ErrNotFound
		}
		return storage.Account{}, fmt.Errorf("looking up credentials: %w", err)
	}

	return account, nil
}
