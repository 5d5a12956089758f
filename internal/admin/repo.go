// Package admin provides dashboard administrators, their PostgreSQL
// repository and bearer-token authentication.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("admin not found")
	ErrAlreadyExist = errors.New("admin already exists")
)

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, a *Admin) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO admins (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING created_at, updated_at
	`, a.ID, a.Email, a.Name, a.PasswordHash).Scan(&a.CreatedAt, &a.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExist
	}
	return err
}

func (r *PGRepo) get(ctx context.Context, where string, arg string) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Admin
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM admins WHERE `+where+`=$1
	`, arg).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Admin, error) {
	return r.get(ctx, "id", id)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.get(ctx, "email", email)
}
