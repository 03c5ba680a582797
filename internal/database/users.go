package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserStore is an auth.UserStore backed by the users table.
type UserStore struct {
	db DBTX
}

var _ auth.UserStore = (*UserStore)(nil)

// NewUserStore returns a store running its queries on db.
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const selectUser = `SELECT id, nome, email, documento, password_hash, created_at FROM users`

// FindByEmail looks an account up by its normalized email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	return s.scanOne(ctx, selectUser+` WHERE email = $1`, auth.NormalizeEmail(email))
}

// FindByID looks an account up by id.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	return s.scanOne(ctx, selectUser+` WHERE id = $1`, toPgUUID(id))
}

// Create inserts u. A duplicate email returns auth.ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, u auth.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, nome, email, documento, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		toPgUUID(u.ID), u.Nome, auth.NormalizeEmail(u.Email), u.Documento, u.PasswordHash,
		pgtype.Timestamptz{Time: createdAt, Valid: true},
	)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) scanOne(ctx context.Context, query string, arg any) (auth.User, error) {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
		u         auth.User
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(&id, &u.Nome, &u.Email, &u.Documento, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("query user: %w", err)
	}

	u.ID = fromPgUUID(id)
	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// toPgUUID converts a uuid to pgtype.UUID; the nil uuid becomes NULL.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

// fromPgUUID converts back; NULL becomes uuid.Nil.
func fromPgUUID(u pgtype.UUID) uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}
	return uuid.UUID(u.Bytes)
}
