package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// ProductRepo provides access to the products table. Storefront reads
// only see active products; the back office sees everything.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, category_id, name, slug, description, price_cents, stock, image_url, is_active, created_at, updated_at`

func scanProduct(scan func(dest ...any) error) (*model.Product, error) {
	var p model.Product
	var categoryID sql.NullInt64
	err := scan(&p.ID, &categoryID, &p.Name, &p.Slug, &p.Description,
		&p.PriceCents, &p.Stock, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		cid := uint64(categoryID.Int64)
		p.CategoryID = &cid
	}
	return &p, nil
}

// ListActive returns a page of active products, optionally filtered by
// category and a case-insensitive name search.
func (r *ProductRepo) ListActive(ctx context.Context, categoryID uint64, search string, limit, offset int) ([]model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE is_active = 1`
	args := make([]interface{}, 0, 4)
	if categoryID != 0 {
		q += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	if s := strings.TrimSpace(search); s != "" {
		q += ` AND name LIKE ?`
		args = append(args, "%"+s+"%")
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return r.list(ctx, q, args...)
}

// List returns a page of all products regardless of visibility. Admin only.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.list(ctx, q, limit, offset)
}

func (r *ProductRepo) list(ctx context.Context, q string, args ...any) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// GetBySlug returns an active product by its URL slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE slug = ? AND is_active = 1`
	return scanProduct(r.db.QueryRowContext(ctx, q, slug).Scan)
}

// GetByID returns a product by primary key regardless of visibility.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return scanProduct(r.db.QueryRowContext(ctx, q, id).Scan)
}

// GetByIDsTx loads several products inside a transaction. Checkout uses
// it to price the cart against current catalog data.
func (r *ProductRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.Product, error) {
	out := make(map[uint64]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecrementStockTx subtracts quantity from a product's stock within a
// transaction. The stock >= ? guard fails the decrement (zero rows)
// instead of going negative when a concurrent checkout got there first;
// that case surfaces as ErrInsufficientStock.
func (r *ProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID uint64, qty uint32) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		qty, productID, qty)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Create inserts a product and returns its ID. Admin only.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
	var categoryID any
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (category_id, name, slug, description, price_cents, stock, image_url, is_active)
		 VALUES (?,?,?,?,?,?,?,?)`,
		categoryID, p.Name, p.Slug, p.Description, p.PriceCents, p.Stock, p.ImageURL, p.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the mutable product columns. Admin only.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	var categoryID any
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET category_id=?, name=?, slug=?, description=?, price_cents=?, stock=?, image_url=?, is_active=?, updated_at=UTC_TIMESTAMP()
		 WHERE id=?`,
		categoryID, p.Name, p.Slug, p.Description, p.PriceCents, p.Stock, p.ImageURL, p.IsActive, p.ID)
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

// Delete removes a product. Past orders keep their snapshots, so no
// referential cleanup is required beyond cart/wishlist rows which
// cascade at the schema level.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
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
