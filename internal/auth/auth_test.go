package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/notes/internal/models"
	"github.com/patric-chuzhbe/notes/internal/user"
)

var testSigningKey = []byte("test-signing-secret-key")

func TestIssueAndVerifyToken(t *testing.T) {
	theAuth := New(testSigningKey, time.Hour)

	usr := &user.User{ID: "3f1b8f2c-0f25-4a47-9a9f-2a828f9a5c11", Email: "a@x.com"}

	token, err := theAuth.IssueToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := theAuth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, identity.UserID, "The token subject should decode to the user's ID")
	assert.Equal(t, usr.Email, identity.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	theAuth := New(testSigningKey, -time.Minute)

	token, err := theAuth.IssueToken(&user.User{ID: "some-user", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = theAuth.VerifyToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	theAuth := New(testSigningKey, time.Hour)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := theAuth.VerifyToken(tokenString)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	}
}

func TestVerifyTokenSignedWithDifferentKey(t *testing.T) {
	issuingAuth := New([]byte("another-secret-key"), time.Hour)
	verifyingAuth := New(testSigningKey, time.Hour)

	token, err := issuingAuth.IssueToken(&user.User{ID: "some-user", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = verifyingAuth.VerifyToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerifyTokenWithUnexpectedSigningMethod(t *testing.T) {
	theAuth := New(testSigningKey, time.Hour)

	unsignedToken := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "some-user"},
	})
	tokenString, err := unsignedToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = theAuth.VerifyToken(tokenString)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestAuthenticateMiddleware(t *testing.T) {
	theAuth := New(testSigningKey, time.Hour)

	usr := &user.User{ID: "some-user", Email: "a@x.com"}
	token, err := theAuth.IssueToken(usr)
	require.NoError(t, err)

	var seenUserID string
	handler := theAuth.Authenticate(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		userID, ok := UserIDFromContext(req.Context())
		require.True(t, ok)
		seenUserID = userID
		res.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, usr.ID, seenUserID)
	})

	t.Run("missing token", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		request.Header.Set("Authorization", "Bearer garbage")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
