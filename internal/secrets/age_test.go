package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", ".age-key")

	r1, err := GenerateIdentity(path)
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}
	before, _ := os.ReadFile(path)

	r2, err := GenerateIdentity(path)
	if err != nil {
		t.Fatalf("second GenerateIdentity: %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("existing key was replaced")
	}
	if r1.String() != r2.String() {
		t.Errorf("recipient changed: %s != %s", r1, r2)
	}
}

func TestLoadIdentityErrors(t *testing.T) {
	if _, err := LoadIdentity(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing key file should fail")
	}

	path := filepath.Join(t.TempDir(), ".age-key")
	if err := os.WriteFile(path, []byte("# only a comment\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIdentity(path); err == nil {
		t.Error("key file without identity should fail")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".age-key")
	recipient, err := GenerateIdentity(path)
	if err != nil {
		t.Fatal(err)
	}
	identity, err := LoadIdentity(path)
	if err != nil {
		t.Fatal(err)
	}

	blob, err := Encrypt("sk-test-123", recipient)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !IsEncrypted(blob) || strings.Contains(blob, "sk-test-123") {
		t.Fatalf("blob = %q", blob)
	}
	plain, err := Decrypt(blob, identity)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != "sk-test-123" {
		t.Errorf("Decrypt = %q", plain)
	}

	other := filepath.Join(t.TempDir(), ".age-key")
	if _, err := GenerateIdentity(other); err != nil {
		t.Fatal(err)
	}
	wrong, _ := LoadIdentity(other)
	if _, err := Decrypt(blob, wrong); err == nil {
		t.Error("Decrypt with another key should fail")
	}
}

func TestIsEncrypted(t *testing.T) {
	tests := map[string]bool{
		"ENC[age:YWJj]": true,
		"ENC[age:]":     false,
		"plain":         false,
		"ENC[age:abc":   false,
		"":              false,
	}
	for s, want := range tests {
		if got := IsEncrypted(s); got != want {
			t.Errorf("IsEncrypted(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestDecryptNotEncrypted(t *testing.T) {
	if _, err := Decrypt("plain", nil); err == nil {
		t.Error("Decrypt of a plain value should fail")
	}
}
