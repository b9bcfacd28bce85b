package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	tokenIssuer = "flaretrack-gateway"

	// Session tokens are deliberately long-lived; a personal tracker
	// favors not signing in every visit over short session windows.
	sessionTTL = 90 * 24 * time.Hour
)

// SessionClaims is the full claim set carried by a session token. The
// provider-specific fields are convenience context only and must never
// drive privileged decisions; those re-resolve through the identity
// store.
type SessionClaims struct {
	jwt.RegisteredClaims
	AuthProvider  Provider `json:"auth_provider"`
	WalletAddress string   `json:"wallet_address,omitempty"`
	FederatedUID  string   `json:"federated_uid,omitempty"`
	Email         string   `json:"email,omitempty"`
}

// ProviderClaims is the per-provider context embedded at mint time.
// Modeling it as a closed set of concrete types keeps claim construction
// checkable per provider instead of passing an untyped map.
type ProviderClaims interface {
	decorate(c *SessionClaims)
}

// WalletClaims is the session context for wallet sign-ins.
type WalletClaims struct {
	Address string
}

func (w WalletClaims) decorate(c *SessionClaims) {
	c.AuthProvider = ProviderWallet
	c.WalletAddress = w.Address
}

// FederatedClaims is the session context for federated sign-ins.
type FederatedClaims struct {
	UID   string
	Email string
}

func (f FederatedClaims) decorate(c *SessionClaims) {
	c.AuthProvider = ProviderFederated
	c.FederatedUID = f.UID
	c.Email = f.Email
}

// TokenIssuer mints and verifies stateless HS256 session tokens. The
// signing key is derived from the configured secret once per process;
// a first-access race would derive the same key twice, which is
// harmless, but sync.Once avoids even that.
type TokenIssuer struct {
	secret []byte

	once sync.Once
	key  []byte
	err  error
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// signingKey derives the immutable process-lifetime signing key.
func (t *TokenIssuer) signingKey() ([]byte, error) {
	t.once.Do(func() {
		if len(t.secret) == 0 {
			t.err = fmt.Errorf("token secret not configured")
			return
		}
		r := hkdf.New(sha256.New, t.secret, nil, []byte("flaretrack session tokens"))
		key := make([]byte, 32)
		if _, err := io.ReadFull(r, key); err != nil {
			t.err = fmt.Errorf("failed to derive signing key: %w", err)
			return
		}
		t.key = key
	})
	return t.key, t.err
}

// Mint issues a session token with sub = accountID plus the provider
// context.
func (t *TokenIssuer) Mint(accountID string, extra ProviderClaims) (string, error) {
	key, err := t.signingKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	if extra != nil {
		extra.decorate(claims)
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Verify checks signature and expiry and returns the token's claims.
// All failures belong to the ErrUnauthorized family.
func (t *TokenIssuer) Verify(token string) (*SessionClaims, error) {
	key, err := t.signingKey()
	if err != nil {
		return nil, err
	}

	claims := &SessionClaims{}
	_, err = jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
	).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, ErrTokenInvalidOrExpired
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenMissingSubject
	}
	return claims, nil
}
