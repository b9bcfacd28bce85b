package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/flaretrack/flaretrack/pkg/logging"
)

// Service composes the verification paths, the identity store, and the
// token issuer into the sign-in and linking flows the handlers expose.
type Service struct {
	logger     *logging.ColoredLogger
	Nonces     *NonceStore
	Wallet     *WalletVerifier
	Federated  *FederatedVerifier
	Identities *IdentityStore
	Tokens     *TokenIssuer
}

func NewService(
	logger *logging.ColoredLogger,
	nonces *NonceStore,
	wallet *WalletVerifier,
	federated *FederatedVerifier,
	identities *IdentityStore,
	tokens *TokenIssuer,
) *Service {
	return &Service{
		logger:     logger,
		Nonces:     nonces,
		Wallet:     wallet,
		Federated:  federated,
		Identities: identities,
		Tokens:     tokens,
	}
}

// IssueNonce issues (or overwrites) the live challenge for the address.
func (s *Service) IssueNonce(ctx context.Context, address string) (string, error) {
	return s.Nonces.Issue(ctx, address)
}

// SignInWithWallet runs the full wallet challenge-response flow and
// mints a session token whose subject is the resolved account id.
func (s *Service) SignInWithWallet(ctx context.Context, message, signature string) (string, error) {
	cred, err := s.Wallet.Verify(ctx, CredentialPayload{Message: message, Signature: signature})
	if err != nil {
		return "", err
	}

	accountID, err := s.Identities.ResolveOrCreate(ctx, cred)
	if err != nil {
		return "", err
	}

	s.logger.ComponentInfo(logging.ComponentAuth, "wallet sign-in",
		zap.String("account_id", accountID),
	)
	return s.Tokens.Mint(accountID, WalletClaims{Address: cred.Identifier})
}

// SignInWithFederated verifies a provider identity token and mints a
// session token for the resolved account.
func (s *Service) SignInWithFederated(ctx context.Context, token string) (string, error) {
	if s.Federated == nil {
		return "", fmt.Errorf("federated provider not configured")
	}

	cred, err := s.Federated.Verify(ctx, CredentialPayload{Token: token})
	if err != nil {
		return "", err
	}

	accountID, err := s.Identities.ResolveOrCreate(ctx, cred)
	if err != nil {
		return "", err
	}

	s.logger.ComponentInfo(logging.ComponentAuth, "federated sign-in",
		zap.String("account_id", accountID),
	)
	return s.Tokens.Mint(accountID, FederatedClaims{UID: cred.Identifier, Email: cred.Email})
}

// LinkWallet re-verifies wallet control and attaches the address to the
// already-authenticated account.
func (s *Service) LinkWallet(ctx context.Context, accountID, message, signature string) error {
	return s.link(ctx, accountID, s.Wallet, CredentialPayload{Message: message, Signature: signature})
}

// LinkFederated re-verifies a provider identity token and attaches the
// external uid to the already-authenticated account.
func (s *Service) LinkFederated(ctx context.Context, accountID, token string) error {
	if s.Federated == nil {
		return fmt.Errorf("federated provider not configured")
	}
	return s.link(ctx, accountID, s.Federated, CredentialPayload{Token: token})
}

// link is the provider-independent half of the linking contract: prove
// present-tense control, then attach with conflict detection. Conflicts
// never transfer an identity or merge accounts.
func (s *Service) link(ctx context.Context, accountID string, verifier CredentialVerifier, payload CredentialPayload) error {
	cred, err := verifier.Verify(ctx, payload)
	if err != nil {
		return err
	}
	if err := s.Identities.Link(ctx, accountID, cred); err != nil {
		return err
	}
	s.logger.ComponentInfo(logging.ComponentAuth, "identity linked",
		zap.String("account_id", accountID),
		zap.String("provider", string(cred.Provider)),
	)
	return nil
}

// ListIdentities returns the account's linked identities.
func (s *Service) ListIdentities(ctx context.Context, accountID string) ([]PublicIdentity, error) {
	return s.Identities.ListIdentities(ctx, accountID)
}
