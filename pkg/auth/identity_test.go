package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func walletCred(address string) VerifiedCredential {
	return VerifiedCredential{Provider: ProviderWallet, Identifier: NormalizeAddress(address)}
}

func federatedCred(uid string) VerifiedCredential {
	return VerifiedCredential{
		Provider:    ProviderFederated,
		Identifier:  uid,
		Email:       uid + "@example.com",
		DisplayName: "Test User",
	}
}

func TestResolveOrCreateWallet(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	id, err := store.ResolveOrCreate(ctx, walletCred("0xAbC"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	// Wallet-seeded accounts reuse the lowercased address as account id.
	if id != "0xabc" {
		t.Errorf("account id = %q; want 0xabc", id)
	}

	again, err := store.ResolveOrCreate(ctx, walletCred("0xABC"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	if again != id {
		t.Errorf("repeat resolve = %q; want %q", again, id)
	}
}

func TestResolveOrCreateFederated(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	id, err := store.ResolveOrCreate(ctx, federatedCred("uid-1"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	// Federated-seeded accounts get an opaque generated id.
	if id == "" || id == "uid-1" {
		t.Errorf("account id = %q; want generated opaque id", id)
	}

	again, err := store.ResolveOrCreate(ctx, federatedCred("uid-1"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	if again != id {
		t.Errorf("repeat resolve = %q; want %q", again, id)
	}
}

func TestResolveOrCreateConcurrent(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = store.ResolveOrCreate(ctx, federatedCred("uid-race"))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("goroutine %d resolved %q; want %q", i, ids[i], ids[0])
		}
	}

	// Exactly one account row must exist for the credential.
	idents, err := store.ListIdentities(ctx, ids[0])
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if len(idents) != 1 {
		t.Errorf("identities = %d; want 1", len(idents))
	}
}

func TestLinkIdempotent(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	id, err := store.ResolveOrCreate(ctx, walletCred("0xabc"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}

	if err := store.Link(ctx, id, federatedCred("uid-1")); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	// Re-linking an identity the account already owns is a no-op.
	if err := store.Link(ctx, id, federatedCred("uid-1")); err != nil {
		t.Fatalf("repeat Link() error = %v", err)
	}

	idents, err := store.ListIdentities(ctx, id)
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if len(idents) != 2 {
		t.Fatalf("identities = %d; want 2", len(idents))
	}
	if idents[0].Provider != ProviderWallet || idents[1].Provider != ProviderFederated {
		t.Errorf("identity order = %q, %q; want wallet then federated", idents[0].Provider, idents[1].Provider)
	}
}

func TestLinkConflict(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	first, err := store.ResolveOrCreate(ctx, federatedCred("uid-1"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	second, err := store.ResolveOrCreate(ctx, walletCred("0xabc"))
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}

	err = store.Link(ctx, second, federatedCred("uid-1"))
	if !errors.Is(err, ErrIdentityAlreadyLinked) {
		t.Fatalf("Link() error = %v; want ErrIdentityAlreadyLinked", err)
	}

	// The conflict must not move the identity off its original account.
	idents, err := store.ListIdentities(ctx, first)
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if len(idents) != 1 || idents[0].Identifier != "uid-1" {
		t.Errorf("original account lost its identity: %+v", idents)
	}
}

func TestListIdentitiesEmpty(t *testing.T) {
	store := NewIdentityStore(testDB(t))

	idents, err := store.ListIdentities(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListIdentities() error = %v", err)
	}
	if idents == nil || len(idents) != 0 {
		t.Errorf("ListIdentities() = %v; want empty non-nil slice", idents)
	}
}
