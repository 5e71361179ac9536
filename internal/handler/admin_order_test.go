package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

func adminStatusRequest(t *testing.T, h *AdminOrderHandler, orderID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetPath("/v1/admin/orders/:id/status")
	c.SetParamNames("id")
	c.SetParamValues(orderID)

	err := h.UpdateStatus(c)
	if err != nil {
		// parseID surfaces bad IDs as HTTPErrors; reflect them like the
		// echo error handler would.
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		rec.Code = he.Code
	}
	return rec
}

func newAdminOrderHandler(t *testing.T) (*AdminOrderHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAdminOrderHandler(repository.NewOrderRepo(db)), mock, db
}

func TestAdminUpdateStatusUnknownValue(t *testing.T) {
	h, mock, db := newAdminOrderHandler(t)
	defer db.Close()

	rec := adminStatusRequest(t, h, "42", `{"status":"TELEPORTED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "no database work for a bad status")
}

func TestAdminUpdateStatusIllegalTransition(t *testing.T) {
	h, mock, db := newAdminOrderHandler(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = ?`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("DELIVERED"))

	rec := adminStatusRequest(t, h, "42", `{"status":"CANCELED"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStatusHappyPath(t *testing.T) {
	h, mock, db := newAdminOrderHandler(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = ?`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CONFIRMED"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status = ?`)).
		WithArgs("PROCESSING", 42, "CONFIRMED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_status_history (order_id, status, comment) VALUES (?, ?, ?)`)).
		WithArgs(42, "PROCESSING", "packing started").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	rec := adminStatusRequest(t, h, "42", `{"status":"PROCESSING","comment":"packing started"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStatusLostRace(t *testing.T) {
	h, mock, db := newAdminOrderHandler(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = ?`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CONFIRMED"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status = ?`)).
		WithArgs("PROCESSING", 42, "CONFIRMED").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	rec := adminStatusRequest(t, h, "42", `{"status":"PROCESSING"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "a concurrent edit between read and write surfaces as a conflict")
	assert.NoError(t, mock.ExpectationsWereMet())
}
