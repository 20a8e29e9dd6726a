package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTKey = []byte("test-signing-key")

func signedOnRequest(t *testing.T, store *sessions.CookieStore, claims UserJWT) *http.Request {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := tok.SignedString(testJWTKey)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	seed := httptest.NewRequest("GET", "/", nil)
	sess, err := store.Get(seed, SessionName)
	require.NoError(t, err)
	sess.Values["jwt"] = ss
	require.NoError(t, sess.Save(seed, rec))

	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func userClaims(isAdmin bool) UserJWT {
	return UserJWT{
		UserID:  "user1",
		Email:   "dana@example.com",
		IsAdmin: isAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
}

func TestMachineAuthenticatedMiddleware(t *testing.T) {
	called := false
	h := MachineAuthenticatedMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("POST", "/x/task/tokens/cleanup", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	r.Header.Set("x-machine-token", "secret")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, called)
}

func TestAdminAuthenticatedMiddleware(t *testing.T) {
	store := sessions.NewCookieStore([]byte("session-key"))
	called := false
	h := AdminAuthenticatedMiddleware(store, testJWTKey, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedOnRequest(t, store, userClaims(false)))
	assert.False(t, called)

	h.ServeHTTP(httptest.NewRecorder(), signedOnRequest(t, store, userClaims(true)))
	assert.True(t, called)
}

func TestIsSignedOn(t *testing.T) {
	store := sessions.NewCookieStore([]byte("session-key"))

	assert.False(t, IsSignedOn(httptest.NewRequest("GET", "/auth", nil), store, testJWTKey))
	assert.True(t, IsSignedOn(signedOnRequest(t, store, userClaims(false)), store, testJWTKey))

	expired := userClaims(false)
	expired.StandardClaims.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	assert.False(t, IsSignedOn(signedOnRequest(t, store, expired), store, testJWTKey))
}
