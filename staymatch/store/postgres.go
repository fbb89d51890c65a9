package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/messages"
)

// Postgres backs the store with a pgx connection pool. Atomic scopes are
// database transactions; per-collaboration serialization comes from the
// row lock taken by GetForUpdate inside the transaction.
type Postgres struct {
	pool     *pgxpool.Pool
	collabs  collabs.Repository
	messages messages.Repository
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		pool:     pool,
		collabs:  collabs.NewRepository(pool),
		messages: messages.NewRepository(pool),
	}
}

func (s *Postgres) Within(ctx context.Context, fn func(collabs.Repository, messages.Repository) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(collabs.NewRepository(tx), messages.NewRepository(tx))
	})
}

func (s *Postgres) Collabs() collabs.Repository {
	return s.collabs
}

func (s *Postgres) Messages() messages.Repository {
	return s.messages
}
