package model

import "time"

// CartItem models a row in the `cart_items` table. Carts are keyed by
// an opaque cart token stored in a cookie so that guests can shop
// before registering. Prices are not snapshotted here; the current
// catalog price applies until checkout.
type CartItem struct {
	ID        uint64    // cart_items.id
	CartToken string    // cart_items.cart_token
	ProductID uint64    // cart_items.product_id
	Quantity  uint32    // cart_items.quantity
	CreatedAt time.Time // cart_items.created_at
	UpdatedAt time.Time // cart_items.updated_at
}

// WishlistItem models a row in the `wishlist_items` table. Wishlists
// require an account, unlike carts.
type WishlistItem struct {
	ID        uint64    // wishlist_items.id
	UserID    uint64    // wishlist_items.user_id
	ProductID uint64    // wishlist_items.product_id
	CreatedAt time.Time // wishlist_items.created_at
}
