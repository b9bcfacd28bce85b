package auth

import (
	"context"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// WalletVerifier validates a signed sign-in statement against the live
// nonce for the claimed address and the personal_sign signature.
type WalletVerifier struct {
	nonces *NonceStore
}

func NewWalletVerifier(nonces *NonceStore) *WalletVerifier {
	return &WalletVerifier{nonces: nonces}
}

// Verify checks the statement's nonce (presence, match, freshness) and
// recovers the signer from the signature. On success the nonce is
// consumed so the same (message, signature) pair can never be replayed.
func (v *WalletVerifier) Verify(ctx context.Context, payload CredentialPayload) (VerifiedCredential, error) {
	st, err := ParseSignInStatement(payload.Message)
	if err != nil {
		return VerifiedCredential{}, err
	}

	value, issuedAt, err := v.nonces.Get(ctx, st.Address)
	if err != nil {
		return VerifiedCredential{}, err
	}
	if value != st.Nonce {
		return VerifiedCredential{}, ErrNonceMismatch
	}
	if time.Since(issuedAt) > NonceTTL {
		return VerifiedCredential{}, ErrNonceExpired
	}

	ok, err := verifyPersonalSign(st.Address, payload.Message, payload.Signature)
	if err != nil || !ok {
		return VerifiedCredential{}, ErrBadSignature
	}

	if err := v.nonces.Consume(ctx, st.Address); err != nil {
		return VerifiedCredential{}, err
	}

	return VerifiedCredential{
		Provider:   ProviderWallet,
		Identifier: NormalizeAddress(st.Address),
	}, nil
}

// verifyPersonalSign checks that signature is a valid personal_sign
// signature over message produced by the claimed address's key. The
// message is hashed with the Ethereum signed-message prefix before
// public key recovery.
func verifyPersonalSign(address, message, signature string) (bool, error) {
	msg := []byte(message)
	prefix := []byte("\x19Ethereum Signed Message:\n" + strconv.Itoa(len(msg)))
	hash := ethcrypto.Keccak256(prefix, msg)

	sigHex := strings.TrimSpace(signature)
	if strings.HasPrefix(sigHex, "0x") || strings.HasPrefix(sigHex, "0X") {
		sigHex = sigHex[2:]
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != 65 {
		return false, ErrBadSignature
	}

	// Wallets commonly emit v as 27/28; recovery wants 0/1.
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := ethcrypto.SigToPub(hash, sig)
	if err != nil {
		return false, ErrBadSignature
	}

	got := NormalizeAddress(ethcrypto.PubkeyToAddress(*pub).Hex())
	want := NormalizeAddress(address)
	return got == want, nil
}
