// Package ctxkeys defines the request-context keys shared between the
// gateway middleware and its handler packages.
package ctxkeys

import "context"

type contextKey string

// accountID carries the account id resolved by the auth middleware.
// It is the mandatory scoping key for every resource operation.
const accountID contextKey = "account_id"

// WithAccountID returns a context carrying the resolved account id.
func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, accountID, id)
}

// AccountID returns the resolved account id, or "" when the request is
// not authenticated.
func AccountID(ctx context.Context) string {
	if v, ok := ctx.Value(accountID).(string); ok {
		return v
	}
	return ""
}
