package oauthstate_test

import (
	"testing"
	"time"

	"github.com/tradepost/tradepost/internal/app/store/oauthstate"
	"github.com/tradepost/tradepost/internal/testutil"
)

func TestStore_SaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state := "test-state-123"
	returnURL := "/profile"
	expiresAt := time.Now().Add(10 * time.Minute)

	if err := store.Save(ctx, state, returnURL, expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gotReturnURL, valid, err := store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("expected state to be valid")
	}
	if gotReturnURL != returnURL {
		t.Errorf("expected returnURL %q, got %q", returnURL, gotReturnURL)
	}
}

func TestStore_Validate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state := "test-state-456"
	if err := store.Save(ctx, state, "", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("first Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected first validation to succeed")
	}

	_, valid, err = store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}
	if valid {
		t.Error("expected state to be consumed after first use")
	}
}

func TestStore_Validate_InvalidState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	returnURL, valid, err := store.Validate(ctx, "non-existent-state")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expected unknown state to be invalid")
	}
	if returnURL != "" {
		t.Errorf("expected empty returnURL, got %q", returnURL)
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state := "expired-state"
	if err := store.Save(ctx, state, "/profile", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expected expired state to be invalid")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "old-1", "", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "old-2", "", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "fresh", "", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deletions, got %d", deleted)
	}

	_, valid, err := store.Validate(ctx, "fresh")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("expected the fresh state to survive cleanup")
	}
}
