package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenMintAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Mint("acct-1", WalletClaims{Address: "0xabc"})
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "acct-1" {
		t.Errorf("Subject = %q; want acct-1", claims.Subject)
	}
	if claims.AuthProvider != ProviderWallet {
		t.Errorf("AuthProvider = %q; want %q", claims.AuthProvider, ProviderWallet)
	}
	if claims.WalletAddress != "0xabc" {
		t.Errorf("WalletAddress = %q; want 0xabc", claims.WalletAddress)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) < 89*24*time.Hour {
		t.Errorf("ExpiresAt = %v; want ~90 days out", claims.ExpiresAt)
	}
}

func TestTokenFederatedClaims(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Mint("acct-2", FederatedClaims{UID: "uid-42", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.AuthProvider != ProviderFederated {
		t.Errorf("AuthProvider = %q; want %q", claims.AuthProvider, ProviderFederated)
	}
	if claims.FederatedUID != "uid-42" || claims.Email != "a@b.c" {
		t.Errorf("FederatedUID = %q, Email = %q", claims.FederatedUID, claims.Email)
	}
}

func TestTokenVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Mint("acct-1", nil)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	_, err = NewTokenIssuer("secret-b").Verify(token)
	if !errors.Is(err, ErrTokenInvalidOrExpired) {
		t.Errorf("Verify() error = %v; want ErrTokenInvalidOrExpired", err)
	}
}

func TestTokenVerifyGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Verify(%q) error = %v; want ErrUnauthorized family", tok, err)
		}
	}
}

func TestTokenVerifyExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	key, err := issuer.signingKey()
	if err != nil {
		t.Fatalf("signingKey() error = %v", err)
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "acct-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalidOrExpired) {
		t.Errorf("Verify() error = %v; want ErrTokenInvalidOrExpired", err)
	}
}

func TestTokenVerifyMissingSubject(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Mint("", nil)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenMissingSubject) {
		t.Errorf("Verify() error = %v; want ErrTokenMissingSubject", err)
	}
}

func TestTokenIssuerNoSecret(t *testing.T) {
	if _, err := NewTokenIssuer("").Mint("acct-1", nil); err == nil {
		t.Error("Mint() with empty secret should fail")
	}
}
