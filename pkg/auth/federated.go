package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// FederatedVerifier validates third-party identity tokens against the
// provider's rotating public key set. The expected issuer is
// <issuerBase>/<audience>, matching providers that mint one issuer per
// project.
type FederatedVerifier struct {
	keys       *KeySet
	issuerBase string
	audience   string
	parser     *jwt.Parser
}

// federatedClaims is the claim set extracted from a provider identity
// token. Subject is the external uid; email and name are optional.
type federatedClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

func NewFederatedVerifier(keys *KeySet, issuerBase, audience string) *FederatedVerifier {
	return &FederatedVerifier{
		keys:       keys,
		issuerBase: strings.TrimSuffix(issuerBase, "/"),
		audience:   audience,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
	}
}

// Audience returns the configured expected audience (project id).
func (v *FederatedVerifier) Audience() string { return v.audience }

// Verify checks signature, issuer, audience, and expiry of the identity
// token and returns the normalized credential. The signing key is
// resolved by kid through the cached key set; an unrecognized kid
// triggers one refresh before failing.
func (v *FederatedVerifier) Verify(ctx context.Context, payload CredentialPayload) (VerifiedCredential, error) {
	claims := &federatedClaims{}
	_, err := v.parser.ParseWithClaims(payload.Token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKey
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, ErrUnknownKey) {
			return VerifiedCredential{}, ErrUnknownKey
		}
		return VerifiedCredential{}, ErrInvalidToken
	}

	if claims.Issuer != v.issuerBase+"/"+v.audience {
		return VerifiedCredential{}, ErrInvalidToken
	}
	if !containsAudience(claims.Audience, v.audience) {
		return VerifiedCredential{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return VerifiedCredential{}, ErrMissingSubject
	}

	return VerifiedCredential{
		Provider:    ProviderFederated,
		Identifier:  claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
