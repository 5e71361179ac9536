package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

func newOrderRepoWithMock(t *testing.T) (*OrderRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewOrderRepo(db), mock, db
}

func orderRows(number string, status model.OrderStatus, notified *time.Time) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	var notifiedAt any
	if notified != nil {
		notifiedAt = *notified
	}
	return sqlmock.NewRows([]string{
		"id", "order_number", "user_id", "email", "status",
		"subtotal_cents", "discount_cents", "total_cents", "coupon_code",
		"ship_name", "ship_street", "ship_city", "ship_zip", "ship_country",
		"bill_name", "bill_street", "bill_city", "bill_zip", "bill_country",
		"notified_at", "created_at", "updated_at",
	}).AddRow(
		42, number, nil, "jo@example.com", string(status),
		5000, 0, 5000, nil,
		"Jo", "1 Main St", "Springfield", "12345", "US",
		"Jo", "1 Main St", "Springfield", "12345", "US",
		notifiedAt, now, now,
	)
}

func TestGetByNumberLoadsItems(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE order_number = \?`).
		WithArgs("ORD-0000000001").
		WillReturnRows(orderRows("ORD-0000000001", model.StatusPending, nil))
	mock.ExpectQuery(`SELECT .+ FROM order_items WHERE order_id = \?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "unit_price_cents", "quantity"}).
			AddRow(1, 42, 9, "Mug", 2500, 2))

	o, err := repo.GetByNumber(context.Background(), "ORD-0000000001")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Nil(t, o.UserID, "guest order has no user")
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Mug", o.Items[0].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByNumberUnknown(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE order_number = \?`).
		WithArgs("ORD-MISSING").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByNumber(context.Background(), "ORD-MISSING")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPendingWinsTransition(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE order_number = ? AND status = ?`)).
		WithArgs("CONFIRMED", "ORD-0000000001", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM orders WHERE order_number = ?`)).
		WithArgs("ORD-0000000001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_status_history (order_id, status, comment) VALUES (?, ?, ?)`)).
		WithArgs(42, "CONFIRMED", ConfirmationComment).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	won, err := repo.ConfirmPending(context.Background(), "ORD-0000000001")
	require.NoError(t, err)
	assert.True(t, won, "the affected row means this call performed the transition")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPendingAlreadyConfirmed(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE order_number = ? AND status = ?`)).
		WithArgs("CONFIRMED", "ORD-0000000001", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	won, err := repo.ConfirmPending(context.Background(), "ORD-0000000001")
	require.NoError(t, err)
	assert.False(t, won, "zero affected rows means a concurrent caller got there first; no history row is written")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPendingRollsBackOnHistoryFailure(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE order_number = ? AND status = ?`)).
		WithArgs("CONFIRMED", "ORD-0000000001", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM orders WHERE order_number = ?`)).
		WithArgs("ORD-0000000001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_status_history (order_id, status, comment) VALUES (?, ?, ?)`)).
		WithArgs(42, "CONFIRMED", ConfirmationComment).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	won, err := repo.ConfirmPending(context.Background(), "ORD-0000000001")
	require.Error(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotifiedClaimsFlagOnce(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta(`UPDATE orders SET notified_at = UTC_TIMESTAMP() WHERE order_number = ? AND notified_at IS NULL`)

	mock.ExpectExec(q).WithArgs("ORD-0000000001").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("ORD-0000000001").WillReturnResult(sqlmock.NewResult(0, 0))

	owned, err := repo.MarkNotified(context.Background(), "ORD-0000000001")
	require.NoError(t, err)
	assert.True(t, owned, "first caller owns the dispatch")

	owned, err = repo.MarkNotified(context.Background(), "ORD-0000000001")
	require.NoError(t, err)
	assert.False(t, owned, "subsequent callers must not send again")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusGuardedOnCurrentStatus(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status = ?`)).
		WithArgs("PROCESSING", 42, "CONFIRMED").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.UpdateStatus(context.Background(), 42, model.StatusConfirmed, model.StatusProcessing, "packing")
	require.NoError(t, err)
	assert.False(t, ok, "stale expected status is reported, not silently applied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
