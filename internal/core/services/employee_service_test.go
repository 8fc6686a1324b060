package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newEmployeeFixture() (*EmployeeService, *fakeEmployeeRepo, *QRCodeService) {
	qr := NewQRCodeService(testSalt)
	repo := newFakeEmployeeRepo()
	return NewEmployeeService(repo, qr), repo, qr
}

func TestCreateEmployeeDerivesQRCode(t *testing.T) {
	svc, repo, qr := newEmployeeFixture()
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, &CreateEmployeeInput{
		Phone:      " 9876543210 ",
		Name:       "Asha Rao",
		Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	if created.Phone != "9876543210" {
		t.Errorf("expected trimmed phone, got %q", created.Phone)
	}
	if want := qr.Derive("9876543210", "Asha Rao"); created.QRCode != want {
		t.Errorf("expected derived QR code %q, got %q", want, created.QRCode)
	}
	if !created.IsActive {
		t.Error("new employees should start active")
	}

	stored, err := repo.GetByPhone(ctx, "9876543210")
	if err != nil {
		t.Fatalf("employee not persisted: %v", err)
	}
	if stored.QRCode != created.QRCode {
		t.Error("persisted QR code differs from returned one")
	}
}

func TestCreateEmployeeDuplicatePhone(t *testing.T) {
	svc, _, _ := newEmployeeFixture()
	ctx := context.Background()

	input := &CreateEmployeeInput{Phone: "9876543210", Name: "Asha Rao"}
	if _, err := svc.CreateEmployee(ctx, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateEmployee(ctx, input)
	if !errors.Is(err, ErrEmployeeAlreadyExists) {
		t.Fatalf("expected ErrEmployeeAlreadyExists, got %v", err)
	}
}

func TestCreateEmployeeRequiresPhone(t *testing.T) {
	svc, _, _ := newEmployeeFixture()

	_, err := svc.CreateEmployee(context.Background(), &CreateEmployeeInput{Name: "Asha Rao"})
	if !errors.Is(err, ErrPhoneRequired) {
		t.Fatalf("expected ErrPhoneRequired, got %v", err)
	}
}

func TestUpdateEmployeeNameRederivesCode(t *testing.T) {
	svc, _, qr := newEmployeeFixture()
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, &CreateEmployeeInput{Phone: "9876543210", Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newName := "Asha Rao-Iyer"
	updated, err := svc.UpdateEmployee(ctx, "9876543210", &UpdateEmployeeInput{Name: &newName})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.QRCode == created.QRCode {
		t.Error("a name change must change the QR code")
	}
	if want := qr.Derive("9876543210", newName); updated.QRCode != want {
		t.Errorf("expected re-derived code %q, got %q", want, updated.QRCode)
	}

	// A non-name change leaves the code alone
	dept := "Finance"
	after, err := svc.UpdateEmployee(ctx, "9876543210", &UpdateEmployeeInput{Department: &dept})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if after.QRCode != updated.QRCode {
		t.Error("a department change must not change the QR code")
	}
}

func TestRegenerateQRCode(t *testing.T) {
	svc, repo, qr := newEmployeeFixture()
	ctx := context.Background()

	if _, err := svc.CreateEmployee(ctx, &CreateEmployeeInput{Phone: "9876543210", Name: "Asha Rao"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Details unchanged: the scheme is deterministic, so nothing to do
	result, err := svc.RegenerateQRCode(ctx, "9876543210")
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if result.Changed {
		t.Error("regeneration with unchanged details must be a no-op")
	}

	// Simulate a stale stored code (written before a data fix)
	employee, _ := repo.GetByPhone(ctx, "9876543210")
	employee.QRCode = "stale"
	if err := repo.Update(ctx, employee); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	result, err = svc.RegenerateQRCode(ctx, "9876543210")
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if !result.Changed {
		t.Error("expected regeneration to repair the stale code")
	}
	if want := qr.Derive("9876543210", "Asha Rao"); result.QRCode != want {
		t.Errorf("expected %q, got %q", want, result.QRCode)
	}
}

func TestRegenerateQRCodeNotFound(t *testing.T) {
	svc, _, _ := newEmployeeFixture()

	_, err := svc.RegenerateQRCode(context.Background(), "0000000000")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestDeactivateAndActivateEmployee(t *testing.T) {
	svc, repo, _ := newEmployeeFixture()
	ctx := context.Background()

	if _, err := svc.CreateEmployee(ctx, &CreateEmployeeInput{Phone: "9876543210", Name: "Asha Rao"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.DeactivateEmployee(ctx, "9876543210"); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	employee, _ := repo.GetByPhone(ctx, "9876543210")
	if employee.IsActive {
		t.Error("expected employee to be inactive")
	}

	if err := svc.ActivateEmployee(ctx, "9876543210"); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	employee, _ = repo.GetByPhone(ctx, "9876543210")
	if !employee.IsActive {
		t.Error("expected employee to be active again")
	}

	if err := svc.DeactivateEmployee(ctx, "0000000000"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestImportCSV(t *testing.T) {
	svc, repo, _ := newEmployeeFixture()
	ctx := context.Background()

	csvData := strings.Join([]string{
		"phone,name,department,employee_id,email",
		"9876543210,Asha Rao,Engineering,E-100,asha@example.com",
		"9876543211,Vikram Shah,Finance",
		",Missing Phone,Ops",
		"9876543210,Asha Again,Engineering",
	}, "\n")

	result, err := svc.ImportCSV(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	if result.Created != 2 {
		t.Errorf("expected 2 created, got %d", result.Created)
	}
	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", result.Skipped)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(result.Errors))
	}
	// Line numbers count data rows including the header line
	if result.Errors[0].Line != 4 {
		t.Errorf("expected first error at line 4, got %d", result.Errors[0].Line)
	}

	if _, err := repo.GetByPhone(ctx, "9876543211"); err != nil {
		t.Errorf("expected second row to be imported: %v", err)
	}
	stored, err := repo.GetByPhone(ctx, "9876543210")
	if err != nil {
		t.Fatalf("expected first row to be imported: %v", err)
	}
	if stored.Name != "Asha Rao" {
		t.Errorf("duplicate row must not overwrite, got name %q", stored.Name)
	}
}

func TestImportCSVWithoutHeader(t *testing.T) {
	svc, _, _ := newEmployeeFixture()

	result, err := svc.ImportCSV(context.Background(),
		strings.NewReader("9876543210,Asha Rao,Engineering\n"))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("expected 1 created, got %d", result.Created)
	}
}
