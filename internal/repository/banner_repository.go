package repository

import (
	"context"
	"database/sql"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// BannerRepo provides access to the banners table.
type BannerRepo struct {
	db *sql.DB
}

func NewBannerRepo(db *sql.DB) *BannerRepo { return &BannerRepo{db: db} }

// ListActive returns visible banners in display order.
func (r *BannerRepo) ListActive(ctx context.Context) ([]model.Banner, error) {
	return r.list(ctx,
		`SELECT id, title, image_url, link_url, position, is_active, created_at
		 FROM banners WHERE is_active = 1 ORDER BY position, id`)
}

// List returns all banners in display order. Admin only.
func (r *BannerRepo) List(ctx context.Context) ([]model.Banner, error) {
	return r.list(ctx,
		`SELECT id, title, image_url, link_url, position, is_active, created_at
		 FROM banners ORDER BY position, id`)
}

func (r *BannerRepo) list(ctx context.Context, q string) ([]model.Banner, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	banners := make([]model.Banner, 0)
	for rows.Next() {
		var b model.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Position, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return banners, nil
}

// Create inserts a banner and returns its ID.
func (r *BannerRepo) Create(ctx context.Context, b *model.Banner) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO banners (title, image_url, link_url, position, is_active) VALUES (?,?,?,?,?)`,
		b.Title, b.ImageURL, b.LinkURL, b.Position, b.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites a banner's columns.
func (r *BannerRepo) Update(ctx context.Context, b *model.Banner) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE banners SET title=?, image_url=?, link_url=?, position=?, is_active=? WHERE id=?`,
		b.Title, b.ImageURL, b.LinkURL, b.Position, b.IsActive, b.ID)
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

// Delete removes a banner.
func (r *BannerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id=?`, id)
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
