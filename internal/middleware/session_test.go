package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantrungnampl/project-store-sub002/internal/auth"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

type stubStore struct {
	sess *model.Session
	user *model.User
	err  error
}

func (s *stubStore) Lookup(context.Context, string) (*model.Session, *model.User, error) {
	return s.sess, s.user, s.err
}
func (s *stubStore) Extend(context.Context, string, time.Time) error { return nil }
func (s *stubStore) Delete(context.Context, string) error            { return nil }

func runChain(t *testing.T, store auth.Store, withCookie bool, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok"})
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var captured echo.Context
	h := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	chain := echo.HandlerFunc(h)
	for i := len(mws) - 1; i >= 0; i-- {
		chain = mws[i](chain)
	}
	require.NoError(t, chain(c))
	return rec, captured
}

func validatorFor(store auth.Store) *auth.Validator {
	return &auth.Validator{Store: store, TTL: time.Hour, RenewWithin: time.Minute}
}

func TestLoadSessionExposesUser(t *testing.T) {
	user := &model.User{ID: 3, Email: "jo@example.com", Role: model.RoleCustomer, IsActive: true}
	sess := &model.Session{ID: 1, UserID: 3, TokenHash: utils.HashSessionToken("tok"), ExpiresAt: time.Now().UTC().Add(time.Hour)}
	store := &stubStore{sess: sess, user: user}

	rec, c := runChain(t, store, true, LoadSession(validatorFor(store)))
	assert.Equal(t, http.StatusOK, rec.Code)

	u, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, uint64(3), u.ID)
	s, ok := CurrentSession(c)
	require.True(t, ok)
	assert.Equal(t, sess.ID, s.ID)
}

func TestLoadSessionStorageErrorIs500(t *testing.T) {
	store := &stubStore{err: errors.New("down")}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	h := LoadSession(validatorFor(store))(func(c echo.Context) error {
		t.Fatal("handler must not run when session storage fails")
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireSessionRejectsGuests(t *testing.T) {
	store := &stubStore{}
	rec, captured := runChain(t, store, false, LoadSession(validatorFor(store)), RequireSession())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured, "the guarded handler must not run without a session")
}

func TestRequireSessionPassesLoggedInUsers(t *testing.T) {
	user := &model.User{ID: 3, Email: "jo@example.com", Role: model.RoleCustomer, IsActive: true}
	sess := &model.Session{ID: 1, UserID: 3, TokenHash: utils.HashSessionToken("tok"), ExpiresAt: time.Now().UTC().Add(time.Hour)}
	store := &stubStore{sess: sess, user: user}

	rec, captured := runChain(t, store, true, LoadSession(validatorFor(store)), RequireSession())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, captured)
}
