package auth

// VerifyRequest is the request body for wallet signature verification.
type VerifyRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// FederatedVerifyRequest is the request body for federated token
// verification.
type FederatedVerifyRequest struct {
	Token string `json:"token"`
}

// LinkWalletRequest is the request body for attaching a wallet to the
// authenticated account.
type LinkWalletRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// LinkFederatedRequest is the request body for attaching a federated
// identity to the authenticated account.
type LinkFederatedRequest struct {
	Token string `json:"token"`
}
