package auth

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

type testWallet struct {
	key     *ecdsa.PrivateKey
	address string
}

func newTestWallet(t *testing.T) *testWallet {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return &testWallet{
		key:     key,
		address: ethcrypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
}

// sign produces a personal_sign signature over message, with the
// recovery byte in the 27/28 wallet convention.
func (w *testWallet) sign(t *testing.T, message string) string {
	t.Helper()
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message))
	hash := ethcrypto.Keccak256([]byte(prefix), []byte(message))
	sig, err := ethcrypto.Sign(hash, w.key)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig)
}

func signInMessage(address, nonce string) string {
	return fmt.Sprintf(
		"flaretrack.app wants you to sign in with your Ethereum account:\n%s\n\nSign in to FlareTrack\n\nURI: https://flaretrack.app\nVersion: 1\nChain ID: 1\nNonce: %s\nIssued At: %s",
		address, nonce, time.Now().UTC().Format(time.RFC3339),
	)
}

func TestWalletVerify(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)

	nonce, err := nonces.Issue(ctx, w.address)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	msg := signInMessage(w.address, nonce)
	cred, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: w.sign(t, msg)})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if cred.Provider != ProviderWallet {
		t.Errorf("Provider = %q; want %q", cred.Provider, ProviderWallet)
	}
	if cred.Identifier != NormalizeAddress(w.address) {
		t.Errorf("Identifier = %q; want %q", cred.Identifier, NormalizeAddress(w.address))
	}
}

func TestWalletVerifyReplay(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)

	nonce, _ := nonces.Issue(ctx, w.address)
	msg := signInMessage(w.address, nonce)
	sig := w.sign(t, msg)

	if _, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: sig}); err != nil {
		t.Fatalf("first Verify() error = %v", err)
	}

	// Verification consumed the nonce; the identical pair must fail.
	_, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: sig})
	if !errors.Is(err, ErrNonceNotFound) {
		t.Errorf("replay Verify() error = %v; want ErrNonceNotFound", err)
	}
}

func TestWalletVerifyStaleNonce(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)

	old, _ := nonces.Issue(ctx, w.address)
	if _, err := nonces.Issue(ctx, w.address); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// A message carrying the overwritten nonce no longer matches.
	msg := signInMessage(w.address, old)
	_, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: w.sign(t, msg)})
	if !errors.Is(err, ErrNonceMismatch) {
		t.Errorf("Verify() error = %v; want ErrNonceMismatch", err)
	}
}

func TestWalletVerifyExpiredNonce(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)

	nonce, _ := nonces.Issue(ctx, w.address)

	// Age the stored challenge past its validity window.
	stale := time.Now().Add(-NonceTTL - time.Minute).Unix()
	if _, err := db.ExecContext(ctx, "UPDATE nonces SET issued_at = ? WHERE address = ?", stale, NormalizeAddress(w.address)); err != nil {
		t.Fatalf("failed to age nonce: %v", err)
	}

	msg := signInMessage(w.address, nonce)
	_, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: w.sign(t, msg)})
	if !errors.Is(err, ErrNonceExpired) {
		t.Errorf("Verify() error = %v; want ErrNonceExpired", err)
	}
}

func TestWalletVerifyWrongSigner(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)
	imposter := newTestWallet(t)

	nonce, _ := nonces.Issue(ctx, w.address)
	msg := signInMessage(w.address, nonce)

	_, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: imposter.sign(t, msg)})
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify() error = %v; want ErrBadSignature", err)
	}

	// The failed attempt must not consume the challenge.
	if _, _, err := nonces.Get(ctx, w.address); err != nil {
		t.Errorf("nonce consumed by failed verify: %v", err)
	}
}

func TestWalletVerifyGarbageSignature(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)

	nonce, _ := nonces.Issue(ctx, w.address)
	msg := signInMessage(w.address, nonce)

	for _, sig := range []string{"", "0x1234", "not-hex", "0x" + strings.Repeat("ff", 65)} {
		_, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: sig})
		if !errors.Is(err, ErrBadSignature) {
			t.Errorf("Verify(sig=%q) error = %v; want ErrBadSignature", sig, err)
		}
	}
}

func TestWalletVerifyAddressCaseInsensitive(t *testing.T) {
	db := testDB(t)
	nonces := NewNonceStore(db)
	verifier := NewWalletVerifier(nonces)
	ctx := context.Background()
	w := newTestWallet(t)

	nonce, _ := nonces.Issue(ctx, strings.ToUpper(w.address))

	// Statement carries the checksummed form; the nonce was issued for
	// the uppercased one.
	msg := signInMessage(w.address, nonce)
	cred, err := verifier.Verify(ctx, CredentialPayload{Message: msg, Signature: w.sign(t, msg)})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if cred.Identifier != NormalizeAddress(w.address) {
		t.Errorf("Identifier = %q; want lowercased address", cred.Identifier)
	}
}
