// Package auth implements the gateway's authentication and identity
// subsystem: nonce challenges for wallet sign-in, federated identity
// token verification, the canonical account/identity model, session
// token issuance, and credential linking.
package auth

import "context"

// Provider identifies the kind of external credential backing an identity.
type Provider string

const (
	ProviderWallet    Provider = "wallet"
	ProviderFederated Provider = "federated"
)

// VerifiedCredential is the normalized result of verifying an external
// credential, regardless of provider. Both verification paths produce
// this shape and the identity store consumes it uniformly.
type VerifiedCredential struct {
	Provider    Provider
	Identifier  string
	Email       string
	DisplayName string
}

// CredentialPayload carries the provider-specific proof material from a
// sign-in or link request. Wallet proofs use Message and Signature;
// federated proofs use Token.
type CredentialPayload struct {
	Message   string
	Signature string
	Token     string
}

// CredentialVerifier proves present-tense control of an external
// credential and normalizes it. Implemented by WalletVerifier and
// FederatedVerifier; both return errors from the ErrAuthFailed family
// on rejection. Having one capability interface keeps the sign-in and
// linking flows identical across providers.
type CredentialVerifier interface {
	Verify(ctx context.Context, payload CredentialPayload) (VerifiedCredential, error)
}
