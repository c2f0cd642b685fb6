// Package secrets keeps provider API keys encrypted at rest in the .env
// file and decrypts them into the environment at startup.
package secrets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"github.com/dohr-michael/mcphost/internal/config"
)

const (
	encPrefix = "ENC[age:"
	encSuffix = "]"
)

// KeyPath returns the age key file: $MCPHOST_PATH/.age-key.
func KeyPath() string {
	return filepath.Join(config.HostPath(), ".age-key")
}

// GenerateIdentity makes sure an X25519 key exists at path and returns its
// recipient. An existing key is kept.
func GenerateIdentity(path string) (*age.X25519Recipient, error) {
	if id, err := LoadIdentity(path); err == nil {
		return id.Recipient(), nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generate age identity: %w", err)
	}
	content := fmt.Sprintf("# mcphost secrets key\n# public key: %s\n%s\n",
		identity.Recipient(), identity)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("write age key: %w", err)
	}
	return identity.Recipient(), nil
}

// LoadIdentity reads the first X25519 identity in path.
func LoadIdentity(path string) (*age.X25519Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open age key: %w", err)
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parse age key %s: %w", path, err)
	}
	for _, id := range identities {
		if x, ok := id.(*age.X25519Identity); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("no X25519 identity in %s", path)
}

// Encrypt returns plaintext as an ENC[age:...] value.
func Encrypt(plaintext string, recipient age.Recipient) (string, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	return encPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()) + encSuffix, nil
}

// Decrypt opens an ENC[age:...] value.
func Decrypt(value string, identity age.Identity) (string, error) {
	if !IsEncrypted(value) {
		return "", errors.New("value is not encrypted")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(value[len(encPrefix) : len(value)-len(encSuffix)])
	if err != nil {
		return "", fmt.Errorf("decode encrypted value: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	return string(plain), nil
}

// IsEncrypted reports whether s is an ENC[age:...] value.
func IsEncrypted(s string) bool {
	return len(s) > len(encPrefix)+len(encSuffix) &&
		strings.HasPrefix(s, encPrefix) && strings.HasSuffix(s, encSuffix)
}
