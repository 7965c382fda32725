// Package store persists the session (token, profile, PIN lock) in the local
// SQLite key/value table.
//
// Keys:
//
//	token     raw session token
//	user      JSON profile {"id","name","email"}
//	user_pin  JSON PIN lock {"salt","digest"}
//
// Loaders return (nil, nil) for absent records and an error wrapping
// ErrMalformed for records that exist but cannot be decoded.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/healthyindia/labelscan/internal/client/models"
	"github.com/healthyindia/labelscan/internal/client/repositories/kv"
	"github.com/healthyindia/labelscan/internal/dbx"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyPin   = "user_pin"
)

var ErrMalformed = errors.New("malformed record")

// SQLiteStore is the persisted session store.
type SQLiteStore struct {
	db   *sql.DB
	repo kv.Repository
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, repo: kv.NewSQLiteRepository(db)}
}

// Open opens and migrates the database at dsn and returns a store over it.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadIdentity reads the persisted profile and token.
func (s *SQLiteStore) LoadIdentity(ctx context.Context) (*models.Identity, error) {
	raw, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, KeyUser, err)
	}
	if p.Name == "" && p.Email == "" {
		return nil, fmt.Errorf("%w: %s: empty profile", ErrMalformed, KeyUser)
	}

	token, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}

	return &models.Identity{
		UserID:    p.ID,
		Name:      p.Name,
		Email:     p.Email,
		AuthToken: string(token),
	}, nil
}

// LoadPin reads the persisted PIN lock.
func (s *SQLiteStore) LoadPin(ctx context.Context) (*models.PinLock, error) {
	raw, err := s.repo.Get(ctx, KeyPin)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var lock models.PinLock
	if err := json.Unmarshal(raw, &lock); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, KeyPin, err)
	}
	if !lock.Valid() {
		return nil, fmt.Errorf("%w: %s: incomplete lock", ErrMalformed, KeyPin)
	}
	return &lock, nil
}

// SaveIdentity writes token and profile in one transaction.
func (s *SQLiteStore) SaveIdentity(ctx context.Context, id models.Identity) error {
	profile, err := json.Marshal(id.Profile())
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, []byte(id.AuthToken)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, profile)
	})
}

// SavePin writes the PIN lock.
func (s *SQLiteStore) SavePin(ctx context.Context, lock models.PinLock) error {
	raw, err := json.Marshal(lock)
	if err != nil {
		return fmt.Errorf("encode pin lock: %w", err)
	}
	return s.repo.Set(ctx, KeyPin, raw)
}

// Clear removes every stored key.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
