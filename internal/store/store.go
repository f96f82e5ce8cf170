package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound covers both "row does not exist" and "row is owned by
	// someone else" so callers cannot leak existence of other users' data.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail = errors.New("email already exists")
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
