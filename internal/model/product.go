package model

import "time"

// Product models a row in the `products` table. Prices are stored in
// cents to avoid floating point money. Stock is decremented at
// checkout with a conditional update so it can never go negative.
//
// Fields:
//  ID          – primary key identifier.
//  CategoryID  – owning category (nullable when uncategorized).
//  Name        – display name.
//  Slug        – unique URL fragment.
//  Description – free-text description.
//  PriceCents  – unit price in cents.
//  Stock       – units available for sale.
//  ImageURL    – main product image.
//  IsActive    – hidden from the storefront when false.
type Product struct {
	ID          uint64    // products.id
	CategoryID  *uint64   // products.category_id (nullable)
	Name        string    // products.name
	Slug        string    // products.slug
	Description string    // products.description
	PriceCents  uint32    // products.price_cents
	Stock       uint32    // products.stock
	ImageURL    string    // products.image_url
	IsActive    bool      // products.is_active
	CreatedAt   time.Time // products.created_at
	UpdatedAt   time.Time // products.updated_at
}

// Category models a row in the `categories` table.
type Category struct {
	ID        uint64    // categories.id
	Name      string    // categories.name
	Slug      string    // categories.slug
	CreatedAt time.Time // categories.created_at
}

// Banner models a promotional banner shown on the storefront home
// page, managed from the back office. Position controls sort order.
type Banner struct {
	ID        uint64    // banners.id
	Title     string    // banners.title
	ImageURL  string    // banners.image_url
	LinkURL   string    // banners.link_url
	Position  uint32    // banners.position
	IsActive  bool      // banners.is_active
	CreatedAt time.Time // banners.created_at
}
