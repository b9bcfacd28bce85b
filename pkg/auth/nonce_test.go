package auth

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/flaretrack/flaretrack/pkg/storage"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNonceIssueAndGet(t *testing.T) {
	db := testDB(t)
	store := NewNonceStore(db)
	ctx := context.Background()

	nonce, err := store.Issue(ctx, "0xABCDEF")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if nonce == "" {
		t.Fatal("Issue() returned empty nonce")
	}

	// Lookup is case-insensitive on address.
	got, issuedAt, err := store.Get(ctx, "0xabcdef")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nonce {
		t.Errorf("Get() = %q; want %q", got, nonce)
	}
	if time.Since(issuedAt) > time.Minute {
		t.Errorf("issuedAt = %v; want recent", issuedAt)
	}
}

func TestNonceReissueOverwrites(t *testing.T) {
	db := testDB(t)
	store := NewNonceStore(db)
	ctx := context.Background()

	first, err := store.Issue(ctx, "0xabc")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := store.Issue(ctx, "0xabc")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if first == second {
		t.Fatal("re-issue returned the same nonce")
	}

	got, _, err := store.Get(ctx, "0xabc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != second {
		t.Errorf("Get() = %q; want latest nonce %q", got, second)
	}
}

func TestNonceGetMissing(t *testing.T) {
	db := testDB(t)
	store := NewNonceStore(db)

	_, _, err := store.Get(context.Background(), "0xnobody")
	if !errors.Is(err, ErrNonceNotFound) {
		t.Errorf("Get() error = %v; want ErrNonceNotFound", err)
	}
}

func TestNonceConsume(t *testing.T) {
	db := testDB(t)
	store := NewNonceStore(db)
	ctx := context.Background()

	if _, err := store.Issue(ctx, "0xabc"); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := store.Consume(ctx, "0xABC"); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if _, _, err := store.Get(ctx, "0xabc"); !errors.Is(err, ErrNonceNotFound) {
		t.Errorf("Get() after Consume error = %v; want ErrNonceNotFound", err)
	}
}

func TestNormalizeAddress(t *testing.T) {
	if got := NormalizeAddress("  0xAbCdEf "); got != "0xabcdef" {
		t.Errorf("NormalizeAddress() = %q; want 0xabcdef", got)
	}
}
