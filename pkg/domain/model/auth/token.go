package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID is the public identifier of a session token
type TokenID string

// TokenSecret is the secret half of a session token. It must never be logged;
// the logging layer redacts values of this type.
type TokenSecret string

// String returns the string representation of the TokenID
func (t TokenID) String() string {
	return string(t)
}

// String returns the string representation of the TokenSecret
func (t TokenSecret) String() string {
	return string(t)
}

// TokenTTL is the lifetime of a session token
const TokenTTL = 7 * 24 * time.Hour

// Token represents an authenticated session
type Token struct {
	ID        TokenID
	Secret    TokenSecret
	Sub       string
	Email     string
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewToken creates a session token for the given identity
func NewToken(sub, email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		Sub:       sub,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(TokenTTL),
	}
}

// NewAnonymousUser returns a token for no-auth development mode
func NewAnonymousUser() *Token {
	return NewToken("anonymous", "anonymous@localhost", "Anonymous")
}

// Validate checks structural validity of the token
func (t *Token) Validate() error {
	if t.ID == "" {
		return goerr.New("token ID is required")
	}
	if t.Secret == "" {
		return goerr.New("token secret is required")
	}
	if t.Sub == "" {
		return goerr.New("token subject is required")
	}
	if t.ExpiresAt.IsZero() {
		return goerr.New("token expiry is required")
	}
	return nil
}

// IsExpired reports whether the token has expired at the given time
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type ctxTokenKey struct{}

// ContextWithToken attaches the token to the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext retrieves the token from the context, or nil if absent
func TokenFromContext(ctx context.Context) *Token {
	token, _ := ctx.Value(ctxTokenKey{}).(*Token)
	return token
}
