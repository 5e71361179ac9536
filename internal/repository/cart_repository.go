package repository

import (
	"context"
	"database/sql"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// CartRepo provides access to the cart_items table. Carts are keyed by
// an opaque token so guests and logged-in customers use the same code
// path.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// Upsert adds the product to the cart or bumps its quantity when the
// row already exists. Relies on the (cart_token, product_id) unique key.
func (r *CartRepo) Upsert(ctx context.Context, cartToken string, productID uint64, qty uint32) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (cart_token, product_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity), updated_at = UTC_TIMESTAMP()`,
		cartToken, productID, qty)
	return err
}

// SetQuantity overwrites the quantity of one cart line. A quantity of
// zero removes the line.
func (r *CartRepo) SetQuantity(ctx context.Context, cartToken string, productID uint64, qty uint32) error {
	if qty == 0 {
		return r.Remove(ctx, cartToken, productID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity=?, updated_at=UTC_TIMESTAMP() WHERE cart_token=? AND product_id=?`,
		qty, cartToken, productID)
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

// Remove deletes one product line from the cart.
func (r *CartRepo) Remove(ctx context.Context, cartToken string, productID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_token=? AND product_id=?`, cartToken, productID)
	return err
}

// Items returns all lines of a cart, oldest first.
func (r *CartRepo) Items(ctx context.Context, cartToken string) ([]model.CartItem, error) {
	const q = `SELECT id, cart_token, product_id, quantity, created_at, updated_at
	           FROM cart_items WHERE cart_token = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, cartToken)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.CartToken, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ItemsTx is Items inside an existing transaction; checkout uses it so
// the cart snapshot and the stock decrements see the same state.
func (r *CartRepo) ItemsTx(ctx context.Context, tx *sql.Tx, cartToken string) ([]model.CartItem, error) {
	const q = `SELECT id, cart_token, product_id, quantity, created_at, updated_at
	           FROM cart_items WHERE cart_token = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, cartToken)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.CartToken, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearTx empties a cart within a transaction (after order creation).
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, cartToken string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_token=?`, cartToken)
	return err
}
