package services

import (
	"context"
	"errors"
	"testing"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/pkg/password"
)

func newAccountFixture(t *testing.T) (*AccountService, *fakeScannerAccountRepo, uint) {
	t.Helper()

	repo := newFakeScannerAccountRepo()
	svc := NewAccountService(repo)

	admin, err := svc.CreateAccount(context.Background(), &CreateAccountInput{
		Username: "admin",
		Password: "super-secret-pw",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return svc, repo, admin.ID
}

func TestCreateAccountHashesPassword(t *testing.T) {
	svc, repo, _ := newAccountFixture(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, &CreateAccountInput{
		Username: "gate-scanner",
		Password: "scanner-pw-123",
		Role:     models.RoleScanner,
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if created.Role != models.RoleScanner {
		t.Errorf("expected scanner role, got %q", created.Role)
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("account not persisted: %v", err)
	}
	if stored.PasswordHash == "scanner-pw-123" {
		t.Fatal("password stored in plaintext")
	}
	if !password.Verify("scanner-pw-123", stored.PasswordHash) {
		t.Error("stored hash does not verify against the password")
	}
}

func TestCreateAccountRejectsBadInput(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, &CreateAccountInput{Username: "x", Password: "long-enough-pw", Role: "superuser"})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}

	_, err = svc.CreateAccount(ctx, &CreateAccountInput{Username: "x", Password: "short", Role: models.RoleScanner})
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}

	_, err = svc.CreateAccount(ctx, &CreateAccountInput{Username: "admin", Password: "long-enough-pw", Role: models.RoleScanner})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateAccountSelfGuards(t *testing.T) {
	svc, _, adminID := newAccountFixture(t)
	ctx := context.Background()

	scannerRole := models.RoleScanner
	_, err := svc.UpdateAccount(ctx, adminID, adminID, &UpdateAccountInput{Role: &scannerRole})
	if !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Errorf("expected ErrCannotChangeOwnRole, got %v", err)
	}

	inactive := false
	_, err = svc.UpdateAccount(ctx, adminID, adminID, &UpdateAccountInput{IsActive: &inactive})
	if !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("expected ErrCannotDeactivateSelf, got %v", err)
	}

	if err := svc.DeactivateAccount(ctx, adminID, adminID); !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("expected ErrCannotDeactivateSelf, got %v", err)
	}
}

func TestLastAdminGuard(t *testing.T) {
	svc, _, adminID := newAccountFixture(t)
	ctx := context.Background()

	second, err := svc.CreateAccount(ctx, &CreateAccountInput{
		Username: "second-admin",
		Password: "another-admin-pw",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create second admin: %v", err)
	}

	// Two active admins: demoting one is fine
	scannerRole := models.RoleScanner
	if _, err := svc.UpdateAccount(ctx, second.ID, adminID, &UpdateAccountInput{Role: &scannerRole}); err != nil {
		t.Fatalf("demote second admin: %v", err)
	}

	// Now the seeded admin is the only one left; another admin acting on it
	// must not be able to demote or deactivate it.
	_, err = svc.UpdateAccount(ctx, adminID, second.ID, &UpdateAccountInput{Role: &scannerRole})
	if !errors.Is(err, ErrCannotRemoveLastAdmin) {
		t.Errorf("expected ErrCannotRemoveLastAdmin on demote, got %v", err)
	}

	if err := svc.DeactivateAccount(ctx, adminID, second.ID); !errors.Is(err, ErrCannotRemoveLastAdmin) {
		t.Errorf("expected ErrCannotRemoveLastAdmin on deactivate, got %v", err)
	}
}

func TestDeactivateScannerAccount(t *testing.T) {
	svc, repo, adminID := newAccountFixture(t)
	ctx := context.Background()

	scanner, err := svc.CreateAccount(ctx, &CreateAccountInput{
		Username: "gate-scanner",
		Password: "scanner-pw-123",
		Role:     models.RoleScanner,
	})
	if err != nil {
		t.Fatalf("create scanner: %v", err)
	}

	if err := svc.DeactivateAccount(ctx, scanner.ID, adminID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	stored, _ := repo.GetByID(ctx, scanner.ID)
	if stored.IsActive {
		t.Error("expected account to be inactive")
	}

	if err := svc.DeactivateAccount(ctx, 999, adminID); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}
