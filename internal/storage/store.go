package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
	"social-media-api/internal/storage/zapadapter"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotExist = errors.New("account does not exist")
)

// AccountStore is implemented by every account persistence backend
type AccountStore interface {
	AccountByID(ctx context.Context, id int64) (Account, error)
	AccountByUsername(ctx context.Context, username string) (Account, error)
	AccountByCredentials(ctx context.Context, username, password string) (Account, error)
	// CreateAccount returns ErrAccountExists if the username is taken.
	CreateAccount(ctx context.Context, a Account) (Account, error)
}

// MessageStore is implemented by every message persistence backend
type MessageStore interface {
	MessageByID(ctx context.Context, id int64) (Message, error)
	Messages(ctx context.Context) ([]Message, error)
	MessagesByAccount(ctx context.Context, accountID int64) ([]Message, error)
	// CreateMessage returns ErrAccountNotExist if PostedBy does not reference an account.
	CreateMessage(ctx context.Context, m Message) (Message, error)
	UpdateMessageText(ctx context.Context, id int64, text string) (Message, error)
	DeleteMessage(ctx context.Context, id int64) (Message, error)
}

var (
	_ AccountStore = (*Store)(nil)
	_ MessageStore = (*Store)(nil)
)

// Store defines fields used in db interaction processes
type Store struct {
	logger *zap.SugaredLogger
	db     *pgxpool.Pool
}

// New sets provided zap.Logger via zapadapter to pgxpool.Pool and returns instance of Store struct
func New(ctx context.Context, logger *zap.SugaredLogger, cfg Config, opts ...Option) (*Store, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	config.ConnConfig.Logger = zapadapter.NewLogger(logger.Desugar())

	for _, opt := range opts {
		opt.apply(config)
	}

	pool, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ConnectConfig: %w", err)
	}

	return &Store{
		logger: logger,
		db:     pool,
	}, nil
}

// Close closes all connections in the pool
func (s *Store) Close() {
	s.db.Close()
}

// AccountByID returns account with provided id
func (s *Store) AccountByID(ctx context.Context, id int64) (Account, error) {
	sql := "select account_id, username, password from account where account_id = $1"
	return scanAccount(s.db.QueryRow(ctx, sql, id))
}

// AccountByUsername returns account with provided username
func (s *Store) AccountByUsername(ctx context.Context, username string) (Account, error) {
	sql := "select account_id, username, password from account where username = $1"
	return scanAccount(s.db.QueryRow(ctx, sql, username))
}

// AccountByCredentials returns account matching both username and password
func (s *Store) AccountByCredentials(ctx context.Context, username, password string) (Account, error) {
	sql := "select account_id, username, password from account where username = $1 and password = $2"
	return scanAccount(s.db.QueryRow(ctx, sql, username, password))
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return a, nil
}

// CreateAccount creates account and returns it with generated id.
// Username uniqueness is guarded by the table constraint.
func (s *Store) CreateAccount(ctx context.Context, a Account) (Account, error) {
	s.logger.Debugf("Creating account (%s)", a.Username)

	sql := "insert into account (username, password) values ($1, $2) returning account_id"
	err := s.db.QueryRow(ctx, sql, a.Username, a.Password).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Account{}, ErrAccountExists
		}
		return Account{}, err
	}

	s.logger.Debugf("Created account (%s) with id %d", a.Username, a.ID)

	return a, nil
}

// MessageByID returns message with provided id
func (s *Store) MessageByID(ctx context.Context, id int64) (Message, error) {
	sql := "select message_id, posted_by, message_text, time_posted_epoch from message where message_id = $1"
	return scanMessage(s.db.QueryRow(ctx, sql, id))
}

// Messages returns all messages ordered by id
func (s *Store) Messages(ctx context.Context) ([]Message, error) {
	s.logger.Debug("Retrieving all messages")

	sql := "select message_id, posted_by, message_text, time_posted_epoch from message order by message_id"
	return s.queryMessages(ctx, sql)
}

// MessagesByAccount returns messages posted by provided account ordered by id
func (s *Store) MessagesByAccount(ctx context.Context, accountID int64) ([]Message, error) {
	s.logger.Debugf("Retrieving messages for account (id: %d)", accountID)

	sql := `select message_id, posted_by, message_text, time_posted_epoch
			  from message
			 where posted_by = $1
			 order by message_id`
	return s.queryMessages(ctx, sql, accountID)
}

func (s *Store) queryMessages(ctx context.Context, sql string, args ...interface{}) ([]Message, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		err = rows.Scan(&m.ID, &m.PostedBy, &m.Text, &m.TimePostedEpoch)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	s.logger.Debugf("Retrieved %d messages", len(messages))

	return messages, nil
}

// CreateMessage creates new message in database and returns it with generated id
func (s *Store) CreateMessage(ctx context.Context, m Message) (Message, error) {
	s.logger.Debugf("Creating message from account (id: %d)", m.PostedBy)

	sql := "insert into message (posted_by, message_text, time_posted_epoch) values ($1, $2, $3) returning message_id"
	err := s.db.QueryRow(ctx, sql, m.PostedBy, m.Text, m.TimePostedEpoch).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return Message{}, ErrAccountNotExist
		}
		return Message{}, err
	}

	return m, nil
}

// UpdateMessageText overwrites text of the message in a single statement
func (s *Store) UpdateMessageText(ctx context.Context, id int64, text string) (Message, error) {
	s.logger.Debugf("Updating text of message (id: %d)", id)

	sql := `update message
			   set message_text = $2
			 where message_id = $1
		 returning message_id, posted_by, message_text, time_posted_epoch`
	return scanMessage(s.db.QueryRow(ctx, sql, id, text))
}

// DeleteMessage removes message and returns its last state
func (s *Store) DeleteMessage(ctx context.Context, id int64) (Message, error) {
	s.logger.Debugf("Deleting message (id: %d)", id)

	sql := "delete from message where message_id = $1 returning message_id, posted_by, message_text, time_posted_epoch"
	return scanMessage(s.db.QueryRow(ctx, sql, id))
}

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	if err := row.Scan(&m.ID, &m.PostedBy, &m.Text, &m.TimePostedEpoch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	return m, nil
}
