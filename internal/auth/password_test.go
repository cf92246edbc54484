package auth

import "testing"

func TestVerifyAdminPlaintext(t *testing.T) {
	if err := VerifyAdmin("admin", "s3cret", "admin", "s3cret", ""); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := VerifyAdmin("admin", "wrong", "admin", "s3cret", ""); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}
	if err := VerifyAdmin("other", "s3cret", "admin", "s3cret", ""); err == nil {
		t.Fatalf("expected mismatch for wrong user")
	}
	if err := VerifyAdmin("admin", "", "admin", "", ""); err == nil {
		t.Fatalf("blank configured password must never match")
	}
}

func TestVerifyAdminHashTakesPrecedence(t *testing.T) {
	hash, err := HashPassword("hashed-pass")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if err := VerifyAdmin("admin", "hashed-pass", "admin", "other-plain", hash); err != nil {
		t.Fatalf("expected hash match, got %v", err)
	}
	// The plaintext fallback is ignored once a hash is configured.
	if err := VerifyAdmin("admin", "other-plain", "admin", "other-plain", hash); err == nil {
		t.Fatalf("plaintext must not match when a hash is set")
	}
}
