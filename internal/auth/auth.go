// Package auth provides stateless JWT-based authentication: token issuance
// after registration or login, verification of bearer tokens, and the HTTP
// middleware that guards note endpoints.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/patric-chuzhbe/notes/internal/models"
	"github.com/patric-chuzhbe/notes/internal/user"
)

// Claims represents the JWT claims used by the system.
// The user ID travels as the registered subject; the email is a custom claim.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is the verified identity extracted from a token.
type Identity struct {
	UserID string
	Email  string
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// UserEmailKey is the context key holding the authenticated user's email.
const UserEmailKey ContextKey = "userEmail"

// Auth issues and verifies signed tokens. Verification is a pure function of
// the token, the signing key, and the current time; no server-side session
// state exists and tokens cannot be revoked before expiry.
type Auth struct {
	signingSecretKey []byte
	tokenTTL         time.Duration
}

// New creates an Auth with the given HMAC signing key and token lifetime.
func New(signingSecretKey []byte, tokenTTL time.Duration) *Auth {
	return &Auth{
		signingSecretKey: signingSecretKey,
		tokenTTL:         tokenTTL,
	}
}

// IssueToken signs a token for the given user. The subject carries the user
// ID and the expiry is set tokenTTL from now.
func (a *Auth) IssueToken(usr *user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usr.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		Email: usr.Email,
	})

	tokenString, err := token.SignedString(a.signingSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks the signature and expiry of a token and returns the
// identity it proves. Every failure mode, whether a malformed token, a bad
// signature, or an expired one, collapses into models.ErrInvalidToken.
func (a *Auth) VerifyToken(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, models.ErrInvalidToken
	}

	return &Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}

// Authenticate is an HTTP middleware that verifies the bearer token from the
// Authorization header and stores the authenticated identity in the request
// context. Requests without a valid token are rejected with 401 before any
// handler runs.
func (a *Auth) Authenticate(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		identity, err := a.VerifyToken(getBearerToken(request))
		if err != nil {
			response.Header().Set("Content-Type", "application/json")
			response.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(response).Encode(models.ErrorResponse{
				Error: models.ErrInvalidToken.Error(),
			})

			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, identity.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, identity.Email)
		requestWithCtx := request.WithContext(ctx)

		h.ServeHTTP(response, requestWithCtx)
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext returns the authenticated user ID stored by Authenticate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func getBearerToken(request *http.Request) string {
	tokenString := request.Header.Get("Authorization")
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

	return tokenString
}
