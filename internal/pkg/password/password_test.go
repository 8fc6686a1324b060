package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}

	if !Verify("correct horse battery", hash) {
		t.Error("expected password to verify against its hash")
	}
	if Verify("wrong password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashToken(t *testing.T) {
	first := HashToken("some-refresh-token")
	second := HashToken("some-refresh-token")

	if first != second {
		t.Error("token hashing must be deterministic")
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}
	if HashToken("another-token") == first {
		t.Error("different tokens must hash differently")
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short") {
		t.Error("expected short password to be rejected")
	}
	if !ValidatePassword("exactly8") {
		t.Error("expected 8-char password to be accepted")
	}
}
