package repository

import (
	"context"
	"database/sql"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// ConfirmationComment is the fixed history comment appended when an
// order moves from PENDING to CONFIRMED through the confirmation page.
const ConfirmationComment = "Order confirmed"

// OrderRepo provides access to the orders, order_items and
// order_status_history tables. Orders are looked up by their
// customer-facing order number; the numeric primary key stays
// internal. All timestamps are stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories (checkout).
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderColumns = `id, order_number, user_id, email, status,
       subtotal_cents, discount_cents, total_cents, coupon_code,
       ship_name, ship_street, ship_city, ship_zip, ship_country,
       bill_name, bill_street, bill_city, bill_zip, bill_country,
       notified_at, created_at, updated_at`

// scanOrder reads one order row from a *sql.Row or *sql.Rows scanner.
func scanOrder(scan func(dest ...any) error) (*model.Order, error) {
	var o model.Order
	var userID sql.NullInt64
	var coupon sql.NullString
	var notifiedAt sql.NullTime
	var status string
	err := scan(
		&o.ID, &o.OrderNumber, &userID, &o.Email, &status,
		&o.SubtotalCents, &o.DiscountCents, &o.TotalCents, &coupon,
		&o.Shipping.Name, &o.Shipping.Street, &o.Shipping.City, &o.Shipping.Zip, &o.Shipping.Country,
		&o.Billing.Name, &o.Billing.Street, &o.Billing.City, &o.Billing.Zip, &o.Billing.Country,
		&notifiedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	if userID.Valid {
		uid := uint64(userID.Int64)
		o.UserID = &uid
	}
	if coupon.Valid {
		cc := coupon.String
		o.CouponCode = &cc
	}
	if notifiedAt.Valid {
		t := notifiedAt.Time
		o.NotifiedAt = &t
	}
	return &o, nil
}

// GetByNumber loads a full order aggregate (items included) by its
// order number. Returns sql.ErrNoRows when no such order exists.
func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE order_number = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, number).Scan)
	if err != nil {
		return nil, err
	}
	items, err := r.itemsByOrderID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) itemsByOrderID(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, order_id, product_id, product_name, unit_price_cents, quantity
	           FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ConfirmPending transitions the order from PENDING to CONFIRMED and
// appends exactly one history row, all inside a single transaction.
// The conditional UPDATE serializes concurrent confirmations: only the
// request whose UPDATE affects a row appends history. It returns true
// when this call performed the transition and false when the order was
// already past PENDING (a no-op, not an error).
func (r *OrderRepo) ConfirmPending(ctx context.Context, number string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE order_number = ? AND status = ?`,
		string(model.StatusConfirmed), number, string(model.StatusPending))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// Already confirmed (or further along); nothing to append.
		if err := tx.Commit(); err != nil {
			return false, err
		}
		committed = true
		return false, nil
	}

	var orderID uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE order_number = ?`, number).Scan(&orderID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO order_status_history (order_id, status, comment) VALUES (?, ?, ?)`,
		orderID, string(model.StatusConfirmed), ConfirmationComment); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// MarkNotified sets the notified_at flag iff it is still unset. It
// returns true when this caller won the flag and therefore owns the
// confirmation dispatch; later callers get false and must not send.
func (r *OrderRepo) MarkNotified(ctx context.Context, number string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET notified_at = UTC_TIMESTAMP() WHERE order_number = ? AND notified_at IS NULL`,
		number)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// CreateTx inserts a new order within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// record. The caller must commit or roll back the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders
	       (order_number, user_id, email, status, subtotal_cents, discount_cents, total_cents, coupon_code,
	        ship_name, ship_street, ship_city, ship_zip, ship_country,
	        bill_name, bill_street, bill_city, bill_zip, bill_country)
	       VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var userID any
	if o.UserID != nil {
		userID = *o.UserID
	}
	var coupon any
	if o.CouponCode != nil {
		coupon = *o.CouponCode
	}
	res, err := tx.ExecContext(ctx, q,
		o.OrderNumber, userID, o.Email, string(o.Status),
		o.SubtotalCents, o.DiscountCents, o.TotalCents, coupon,
		o.Shipping.Name, o.Shipping.Street, o.Shipping.City, o.Shipping.Zip, o.Shipping.Country,
		o.Billing.Name, o.Billing.Street, o.Billing.City, o.Billing.Zip, o.Billing.Country,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM orders WHERE id = ?`, o.ID,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// CreateItemsBulkTx inserts all order_items rows in a single statement.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.OrderID, it.ProductID, it.ProductName, it.UnitPriceCents, it.Quantity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// AppendHistoryTx appends one status history row within a transaction.
func (r *OrderRepo) AppendHistoryTx(ctx context.Context, tx *sql.Tx, orderID uint64, status model.OrderStatus, comment string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_status_history (order_id, status, comment) VALUES (?, ?, ?)`,
		orderID, string(status), comment)
	return err
}

// HistoryByOrderID returns the append-only status log, oldest first.
func (r *OrderRepo) HistoryByOrderID(ctx context.Context, orderID uint64) ([]model.StatusHistoryEntry, error) {
	const q = `SELECT id, order_id, status, comment, created_at
	           FROM order_status_history WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.StatusHistoryEntry, 0)
	for rows.Next() {
		var e model.StatusHistoryEntry
		var status string
		if err := rows.Scan(&e.ID, &e.OrderID, &status, &e.Comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Status = model.OrderStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUser returns all orders belonging to a user, newest first,
// without items. Used for the account order history page.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY created_at DESC`
	return r.listOrders(ctx, q, userID)
}

// List returns a page of all orders, newest first. Admin only.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.listOrders(ctx, q, limit, offset)
}

func (r *OrderRepo) listOrders(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus performs an administrative status transition from one
// known status to another, appending a history entry in the same
// transaction. The WHERE status = ? guard makes the read-modify-write
// atomic; false means the order was not in the expected status (lost
// race or stale admin view).
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID uint64, from, to model.OrderStatus, comment string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status = ?`,
		string(to), orderID, string(from))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		if err := tx.Commit(); err != nil {
			return false, err
		}
		committed = true
		return false, nil
	}
	if err := r.AppendHistoryTx(ctx, tx, orderID, to, comment); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// GetStatus returns just the current status of an order by ID.
func (r *OrderRepo) GetStatus(ctx context.Context, orderID uint64) (model.OrderStatus, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = ?`, orderID).Scan(&status)
	if err != nil {
		return "", err
	}
	return model.OrderStatus(status), nil
}
