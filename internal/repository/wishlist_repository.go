package repository

import (
	"context"
	"database/sql"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// WishlistRepo provides access to the wishlist_items table.
type WishlistRepo struct {
	db *sql.DB
}

func NewWishlistRepo(db *sql.DB) *WishlistRepo { return &WishlistRepo{db: db} }

// Add puts a product on the user's wishlist. Adding twice is a no-op
// thanks to the (user_id, product_id) unique key.
func (r *WishlistRepo) Add(ctx context.Context, userID, productID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO wishlist_items (user_id, product_id) VALUES (?,?)`,
		userID, productID)
	return err
}

// Remove takes a product off the user's wishlist.
func (r *WishlistRepo) Remove(ctx context.Context, userID, productID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id=? AND product_id=?`, userID, productID)
	return err
}

// List returns the user's wishlist entries, newest first.
func (r *WishlistRepo) List(ctx context.Context, userID uint64) ([]model.WishlistItem, error) {
	const q = `SELECT id, user_id, product_id, created_at
	           FROM wishlist_items WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.WishlistItem, 0)
	for rows.Next() {
		var it model.WishlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
