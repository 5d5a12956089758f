// Package coupon provides coupon rules and their PostgreSQL repository.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("coupon not found")
	ErrCodeTaken = errors.New("coupon code already exists")
)

type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, limit, offset int) ([]Coupon, error)
	SetActive(ctx context.Context, code string, active bool) error
	Delete(ctx context.Context, code string) (bool, error)
	// Redeem prices subtotal with the coupon and consumes one use atomically.
	Redeem(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const couponColumns = `id, code, kind, value::text, min_subtotal::text, max_uses, used_count,
	starts_at, expires_at, active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*Coupon, error) {
	var (
		c             Coupon
		kind          string
		value, minSub string
	)
	err := row.Scan(&c.ID, &c.Code, &kind, &value, &minSub, &c.MaxUses, &c.UsedCount,
		&c.StartsAt, &c.ExpiresAt, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Kind = Kind(kind)
	if c.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("coupon %s value: %w", c.Code, err)
	}
	if c.MinSubtotal, err = decimal.NewFromString(minSub); err != nil {
		return nil, fmt.Errorf("coupon %s min_subtotal: %w", c.Code, err)
	}
	return &c, nil
}

func (r *PGRepo) Create(ctx context.Context, c *Coupon) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO coupons (id, code, kind, value, min_subtotal, max_uses, used_count,
		                     starts_at, expires_at, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,0,$7,$8,$9,NOW(),NOW())
		RETURNING created_at, updated_at
	`, c.ID, c.Code, string(c.Kind), c.Value.String(), c.MinSubtotal.String(), c.MaxUses,
		c.StartsAt, c.ExpiresAt, c.Active).Scan(&c.CreatedAt, &c.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrCodeTaken
	}
	return err
}

func (r *PGRepo) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanCoupon(r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code=$1`, code))
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetActive(ctx context.Context, code string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE coupons SET active = $2, updated_at = NOW() WHERE code = $1
	`, code, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE code=$1`, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) Redeem(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c, err := scanCoupon(tx.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code=$1 FOR UPDATE`, code))
	if err != nil {
		return decimal.Zero, err
	}
	discount, err := c.Discount(subtotal, now)
	if err != nil {
		return decimal.Zero, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE coupons SET used_count = used_count + 1, updated_at = NOW() WHERE id = $1
	`, c.ID); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return discount, nil
}
