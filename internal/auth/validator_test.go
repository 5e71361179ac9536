package auth

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

	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

// fakeStore records every call so tests can assert on both results and
// side effects.
type fakeStore struct {
	sess *model.Session
	user *model.User

	lookupErr error
	extendErr error

	lookups int
	extends []time.Time
	deletes []string
}

func (f *fakeStore) Lookup(_ context.Context, tokenHash string) (*model.Session, *model.User, error) {
	f.lookups++
	if f.lookupErr != nil {
		return nil, nil, f.lookupErr
	}
	if f.sess == nil || f.sess.TokenHash != tokenHash {
		return nil, nil, nil
	}
	return f.sess, f.user, nil
}

func (f *fakeStore) Extend(_ context.Context, _ string, exp time.Time) error {
	if f.extendErr != nil {
		return f.extendErr
	}
	f.extends = append(f.extends, exp)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, tokenHash string) error {
	f.deletes = append(f.deletes, tokenHash)
	return nil
}

func newTestContext(t *testing.T, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func newValidator(store *fakeStore) *Validator {
	return &Validator{Store: store, TTL: 24 * time.Hour, RenewWithin: 6 * time.Hour}
}

func sessionFixture(token string, exp time.Time) (*model.Session, *model.User) {
	sess := &model.Session{ID: 1, UserID: 7, TokenHash: utils.HashSessionToken(token), ExpiresAt: exp}
	user := &model.User{ID: 7, Email: "jo@example.com", Role: model.RoleCustomer, IsActive: true}
	return sess, user
}

func TestValidateNoCookieSkipsStorage(t *testing.T) {
	store := &fakeStore{}
	c, _ := newTestContext(t, nil)

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Nil(t, s)
	assert.Zero(t, store.lookups, "no cookie must mean no storage round trip")
}

func TestValidateUnknownSessionClearsCookie(t *testing.T) {
	store := &fakeStore{}
	c, rec := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "bogus"})

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Nil(t, s)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
	assert.Empty(t, store.deletes, "nothing to delete for an unknown token")
}

func TestValidateExpiredSessionDeletesRow(t *testing.T) {
	now := time.Now().UTC()
	sess, user := sessionFixture("tok", now.Add(-time.Minute))
	store := &fakeStore{sess: sess, user: user}
	c, rec := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "tok"})

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Nil(t, s)
	assert.Equal(t, []string{sess.TokenHash}, store.deletes)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestValidateInactiveUserTreatedAsLoggedOut(t *testing.T) {
	now := time.Now().UTC()
	sess, user := sessionFixture("tok", now.Add(12*time.Hour))
	user.IsActive = false
	store := &fakeStore{sess: sess, user: user}
	c, _ := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "tok"})

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Nil(t, s)
	assert.Equal(t, []string{sess.TokenHash}, store.deletes, "suspended user's session row is removed")
}

func TestValidateHealthySessionUntouched(t *testing.T) {
	now := time.Now().UTC()
	exp := now.Add(12 * time.Hour) // outside the 6h renewal window
	sess, user := sessionFixture("tok", exp)
	store := &fakeStore{sess: sess, user: user}
	c, rec := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "tok"})

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotNil(t, s)
	assert.Equal(t, user.ID, u.ID)
	assert.Equal(t, exp, s.ExpiresAt)
	assert.Empty(t, store.extends)
	assert.Empty(t, rec.Result().Cookies(), "no renewal means no cookie rewrite")
}

func TestValidateFreshSessionRenewed(t *testing.T) {
	now := time.Now().UTC()
	oldExp := now.Add(2 * time.Hour) // inside the 6h renewal window
	sess, user := sessionFixture("tok", oldExp)
	store := &fakeStore{sess: sess, user: user}
	c, rec := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "tok"})

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotNil(t, s)

	require.Len(t, store.extends, 1)
	assert.True(t, store.extends[0].After(oldExp), "renewed expiry must be later than the old one")
	assert.Equal(t, store.extends[0], s.ExpiresAt)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value, "the token itself is not rotated on renewal")
	assert.True(t, cookies[0].Expires.After(oldExp))
}

func TestValidateRenewalFailureKeepsSession(t *testing.T) {
	now := time.Now().UTC()
	oldExp := now.Add(2 * time.Hour)
	sess, user := sessionFixture("tok", oldExp)
	store := &fakeStore{sess: sess, user: user, extendErr: errors.New("db busy")}
	c, rec := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "tok"})

	u, s, err := newValidator(store).Validate(c)
	require.NoError(t, err, "a failed renewal is not a validation failure")
	require.NotNil(t, u)
	require.NotNil(t, s)
	assert.Equal(t, oldExp, s.ExpiresAt, "expiry stays on the old value")
	assert.Empty(t, rec.Result().Cookies())
}

func TestValidateStorageErrorPropagates(t *testing.T) {
	store := &fakeStore{lookupErr: errors.New("connection refused")}
	c, rec := newTestContext(t, &http.Cookie{Name: SessionCookieName, Value: "tok"})

	u, s, err := newValidator(store).Validate(c)
	require.Error(t, err)
	assert.Nil(t, u)
	assert.Nil(t, s)
	assert.Empty(t, rec.Result().Cookies(), "a storage blip must not log the customer out")
}
