package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	read       BOOLEAN NOT NULL DEFAULT FALSE
)`

// PostgresStore files contact records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the database at dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return NewPostgresStore(db), nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the contact_messages table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create contact_messages: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, r Record) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.Name, r.Email, r.Subject, r.Message.Message, r.CreatedAt, r.Read)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	query := `
		SELECT id, name, email, subject, message, created_at, read
		FROM contact_messages
		WHERE id = $1
	`

	var r Record
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&r.Subject,
		&r.Message.Message,
		&r.CreatedAt,
		&r.Read,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
