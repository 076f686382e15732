package storage

import (
	"context"
	"fmt"
)

const schema = `
create table if not exists account (
	account_id bigserial primary key,
	username   text not null unique,
	password   text not null
);

create table if not exists message (
	message_id        bigserial primary key,
	posted_by         bigint not null references account (account_id),
	message_text      varchar(255) not null,
	time_posted_epoch bigint not null default 0
);

create index if not exists message_posted_by_idx on message (posted_by);
`

// Migrate creates tables and indexes missing from the database
func (s *Store) Migrate(ctx context.Context) error {
	s.logger.Info("Applying database schema")

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	return nil
}
