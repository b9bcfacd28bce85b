package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PublicIdentity is the externally visible projection of an identity row.
type PublicIdentity struct {
	Provider    Provider  `json:"provider"`
	Identifier  string    `json:"identifier"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdentityStore holds the canonical account records and their linked
// identities. Identities are append-only: there is no unlink, so a
// bootstrapped account always keeps at least one credential.
type IdentityStore struct {
	db *sql.DB
}

func NewIdentityStore(db *sql.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// ResolveOrCreate returns the account owning the credential, creating a
// new account plus identity row when none exists. Wallet-seeded accounts
// reuse the address as the account id (legacy single-identity scheme);
// federated-seeded accounts get a generated opaque id.
//
// Safe under concurrent identical calls: the insert is guarded by the
// UNIQUE(provider, identifier) constraint, and a lost race rolls back
// the provisional account and returns the winner's account id.
func (s *IdentityStore) ResolveOrCreate(ctx context.Context, cred VerifiedCredential) (string, error) {
	if id, err := s.ownerOf(ctx, cred.Provider, cred.Identifier); err == nil {
		return id, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	accountID := cred.Identifier
	if cred.Provider != ProviderWallet {
		accountID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO accounts(id, display_name, email) VALUES (?, ?, ?)",
		accountID, nullable(cred.DisplayName), nullable(cred.Email),
	); err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO identities(account_id, provider, identifier, email, display_name) VALUES (?, ?, ?, ?, ?) ON CONFLICT(provider, identifier) DO NOTHING",
		accountID, cred.Provider, cred.Identifier, nullable(cred.Email), nullable(cred.DisplayName),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create identity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the race: drop the provisional account and converge on
		// the account the concurrent caller created.
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			return "", err
		}
		return s.ownerOf(ctx, cred.Provider, cred.Identifier)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return accountID, nil
}

// Link attaches the credential to accountID. Re-linking a credential the
// account already owns is a no-op; a credential owned by a different
// account fails ErrIdentityAlreadyLinked and changes nothing.
func (s *IdentityStore) Link(ctx context.Context, accountID string, cred VerifiedCredential) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO identities(account_id, provider, identifier, email, display_name) VALUES (?, ?, ?, ?, ?) ON CONFLICT(provider, identifier) DO NOTHING",
		accountID, cred.Provider, cred.Identifier, nullable(cred.Email), nullable(cred.DisplayName),
	)
	if err != nil {
		return fmt.Errorf("failed to link identity: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	owner, err := s.ownerOf(ctx, cred.Provider, cred.Identifier)
	if err != nil {
		return err
	}
	if owner != accountID {
		return ErrIdentityAlreadyLinked
	}
	return nil
}

// ListIdentities returns all identities owned by accountID in creation
// order.
func (s *IdentityStore) ListIdentities(ctx context.Context, accountID string) ([]PublicIdentity, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT provider, identifier, email, display_name, created_at FROM identities WHERE account_id = ? ORDER BY created_at, id",
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	identities := make([]PublicIdentity, 0)
	for rows.Next() {
		var (
			ident       PublicIdentity
			email, name sql.NullString
		)
		if err := rows.Scan(&ident.Provider, &ident.Identifier, &email, &name, &ident.CreatedAt); err != nil {
			return nil, err
		}
		ident.Email = email.String
		ident.DisplayName = name.String
		identities = append(identities, ident)
	}
	return identities, rows.Err()
}

// ownerOf returns the account id bound to (provider, identifier).
// sql.ErrNoRows when the pair is unclaimed.
func (s *IdentityStore) ownerOf(ctx context.Context, provider Provider, identifier string) (string, error) {
	var accountID string
	err := s.db.QueryRowContext(ctx,
		"SELECT account_id FROM identities WHERE provider = ? AND identifier = ?",
		provider, identifier,
	).Scan(&accountID)
	return accountID, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
