package auth

import (
	"strings"
	"time"
)

// SignInStatement is the structured form of the plain-text message a
// wallet signs during challenge-response sign-in, per the EIP-4361
// sign-in message layout:
//
//	<domain> wants you to sign in with your Ethereum account:
//	<address>
//
//	<statement>
//
//	URI: <uri>
//	Version: <version>
//	Chain ID: <chain id>
//	Nonce: <nonce>
//	Issued At: <timestamp>
type SignInStatement struct {
	Domain    string
	Address   string
	Statement string
	URI       string
	Version   string
	ChainID   string
	Nonce     string
	IssuedAt  time.Time
}

const addressIntro = " wants you to sign in with your Ethereum account:"

// ParseSignInStatement parses the raw signed message. Malformed input
// is reported as ErrBadSignature so the wallet flow stays inside the
// uniform 401 family.
func ParseSignInStatement(raw string) (*SignInStatement, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) < 2 || !strings.HasSuffix(lines[0], addressIntro) {
		return nil, ErrBadSignature
	}

	st := &SignInStatement{
		Domain:  strings.TrimSuffix(lines[0], addressIntro),
		Address: strings.TrimSpace(lines[1]),
	}
	if st.Domain == "" || st.Address == "" {
		return nil, ErrBadSignature
	}

	// Free-form statement: everything between the blank line after the
	// address and the first "Key: value" field line.
	var statement []string
	for _, line := range lines[2:] {
		switch {
		case strings.HasPrefix(line, "URI: "):
			st.URI = strings.TrimPrefix(line, "URI: ")
		case strings.HasPrefix(line, "Version: "):
			st.Version = strings.TrimPrefix(line, "Version: ")
		case strings.HasPrefix(line, "Chain ID: "):
			st.ChainID = strings.TrimPrefix(line, "Chain ID: ")
		case strings.HasPrefix(line, "Nonce: "):
			st.Nonce = strings.TrimPrefix(line, "Nonce: ")
		case strings.HasPrefix(line, "Issued At: "):
			ts := strings.TrimPrefix(line, "Issued At: ")
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				st.IssuedAt = t
			}
		default:
			if s := strings.TrimSpace(line); s != "" {
				statement = append(statement, s)
			}
		}
	}
	st.Statement = strings.Join(statement, " ")

	if st.Nonce == "" {
		return nil, ErrBadSignature
	}
	return st, nil
}
