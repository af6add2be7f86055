package domain

import (
	"context"
	"io"
	"time"
)

// Mailer delivers transactional mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// FileStore persists uploaded files and returns the public reference.
type FileStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// TokenVerifier checks a session token's signature and lifetime.
type TokenVerifier interface {
	Verify(token string) (subject string, expiresAt time.Time, err error)
}

// PasswordHasher hashes and compares secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
