package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/store"
)

// ErrInvalidCredentials is returned for an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRevoked is returned for a token that was signed out.
var ErrRevoked = errors.New("token revoked")

// HashPassword hashes a password with bcrypt after checking its length.
func HashPassword(password string) (string, error) {
	if err := model.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// GeneratePassword returns a random password for first-run setup.
func GeneratePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login checks a username and password and issues a token.
func Login(ctx context.Context, db *sql.DB, secret, username, password string) (string, *model.User, error) {
	user, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(secret, user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate validates a token and rejects revoked ones.
func Authenticate(ctx context.Context, db *sql.DB, secret, token string) (*Claims, error) {
	claims, err := ValidateToken(secret, token)
	if err != nil {
		return nil, err
	}
	revoked, err := store.IsTokenRevoked(ctx, db, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Logout revokes the token's JTI until it would have expired anyway.
func Logout(ctx context.Context, db *sql.DB, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return store.RevokeToken(ctx, db, claims.ID, claims.ExpiresAt.Time)
}
