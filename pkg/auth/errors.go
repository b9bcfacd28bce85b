package auth

import (
	"errors"
	"fmt"
)

// ErrAuthFailed is the root of every credential-verification failure.
// Handlers collapse the whole family into one generic 401 so clients
// cannot distinguish which check rejected them; the specific reasons
// below exist for internal checks and tests via errors.Is.
var ErrAuthFailed = errors.New("authentication failed")

var (
	ErrNonceNotFound  = fmt.Errorf("%w: no live nonce for address", ErrAuthFailed)
	ErrNonceMismatch  = fmt.Errorf("%w: nonce mismatch", ErrAuthFailed)
	ErrNonceExpired   = fmt.Errorf("%w: nonce expired", ErrAuthFailed)
	ErrBadSignature   = fmt.Errorf("%w: bad signature", ErrAuthFailed)
	ErrInvalidToken   = fmt.Errorf("%w: invalid identity token", ErrAuthFailed)
	ErrUnknownKey     = fmt.Errorf("%w: unknown signing key", ErrAuthFailed)
	ErrMissingSubject = fmt.Errorf("%w: missing subject claim", ErrAuthFailed)
)

// ErrIdentityAlreadyLinked is returned when linking a credential that is
// already bound to a different account. Surfaced as HTTP 409. Linking
// never transfers an identity or merges accounts.
var ErrIdentityAlreadyLinked = errors.New("identity already linked to another account")

// ErrUnauthorized is the root of bearer-token failures in the request
// middleware. Like ErrAuthFailed it maps to a uniform 401.
var ErrUnauthorized = errors.New("unauthorized")

var (
	ErrTokenInvalidOrExpired = fmt.Errorf("%w: invalid or expired session token", ErrUnauthorized)
	ErrTokenMissingSubject   = fmt.Errorf("%w: session token has no subject", ErrUnauthorized)
)
