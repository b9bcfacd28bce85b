package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NonceTTL is the fixed validity window of an issued challenge. There is
// no background sweep; staleness is checked lazily at verification time.
const NonceTTL = 5 * time.Minute

// NonceStore persists at most one live single-use challenge per wallet
// address. Issuing a new nonce overwrites the prior value.
type NonceStore struct {
	db *sql.DB
}

func NewNonceStore(db *sql.DB) *NonceStore {
	return &NonceStore{db: db}
}

// Issue generates a URL-safe random nonce (32 bytes) for the address and
// stores it, replacing any existing live nonce in a single statement.
func (s *NonceStore) Issue(ctx context.Context, address string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := base64.RawURLEncoding.EncodeToString(buf)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO nonces(address, value, issued_at) VALUES (?, ?, ?) ON CONFLICT(address) DO UPDATE SET value = excluded.value, issued_at = excluded.issued_at",
		NormalizeAddress(address), nonce, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}
	return nonce, nil
}

// Get returns the live nonce for the address. ErrNonceNotFound when no
// challenge is outstanding.
func (s *NonceStore) Get(ctx context.Context, address string) (value string, issuedAt time.Time, err error) {
	var unix int64
	row := s.db.QueryRowContext(ctx,
		"SELECT value, issued_at FROM nonces WHERE address = ?",
		NormalizeAddress(address),
	)
	if err := row.Scan(&value, &unix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, ErrNonceNotFound
		}
		return "", time.Time{}, fmt.Errorf("failed to load nonce: %w", err)
	}
	return value, time.Unix(unix, 0), nil
}

// Consume deletes the live nonce for the address, enforcing single use.
func (s *NonceStore) Consume(ctx context.Context, address string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM nonces WHERE address = ?", NormalizeAddress(address))
	return err
}

// NormalizeAddress canonicalizes a wallet address for storage and
// comparison. Addresses are compared case-insensitively.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
