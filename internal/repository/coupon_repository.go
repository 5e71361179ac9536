package repository

import (
	"context"
	"database/sql"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// CouponRepo provides access to the coupons table.
type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{db: db} }

const couponColumns = `id, code, percent_off, amount_off_cents, min_subtotal_cents, expires_at, is_active, created_at`

func scanCoupon(scan func(dest ...any) error) (*model.Coupon, error) {
	var c model.Coupon
	var expiresAt sql.NullTime
	err := scan(&c.ID, &c.Code, &c.PercentOff, &c.AmountOffCents,
		&c.MinSubtotalCents, &expiresAt, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

// GetByCode returns a coupon by its (upper-case) code. sql.ErrNoRows
// when absent; validity is the caller's concern via Coupon.Usable.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons WHERE code = ? LIMIT 1`
	return scanCoupon(r.db.QueryRowContext(ctx, q, code).Scan)
}

// List returns all coupons, newest first. Admin only.
func (r *CouponRepo) List(ctx context.Context) ([]model.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	coupons := make([]model.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows.Scan)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coupons, nil
}

// Create inserts a coupon and returns its ID.
func (r *CouponRepo) Create(ctx context.Context, c *model.Coupon) (uint64, error) {
	var expiresAt any
	if c.ExpiresAt != nil {
		expiresAt = *c.ExpiresAt
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO coupons (code, percent_off, amount_off_cents, min_subtotal_cents, expires_at, is_active)
		 VALUES (?,?,?,?,?,?)`,
		c.Code, c.PercentOff, c.AmountOffCents, c.MinSubtotalCents, expiresAt, c.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetActive enables or disables a coupon.
func (r *CouponRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE coupons SET is_active=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a coupon. Orders keep the applied code as a snapshot
// string, so deletion never rewrites history.
func (r *CouponRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
