package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// DecryptEnv replaces every encrypted environment variable with its
// plaintext and returns the names it decrypted. Variables that cannot be
// decrypted keep their encrypted value.
func DecryptEnv(keyPath string) ([]string, error) {
	var encrypted []string
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if IsEncrypted(v) {
			encrypted = append(encrypted, k)
		}
	}
	if len(encrypted) == 0 {
		return nil, nil
	}
	slices.Sort(encrypted)

	identity, err := LoadIdentity(keyPath)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", strings.Join(encrypted, ", "), err)
	}

	var (
		done []string
		errs []error
	)
	for _, k := range encrypted {
		plain, err := Decrypt(os.Getenv(k), identity)
		if err != nil {
			errs = append(errs, fmt.Errorf("decrypt %s: %w", k, err))
			continue
		}
		if err := os.Setenv(k, plain); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", k, err))
			continue
		}
		done = append(done, k)
	}
	slog.Debug("secrets decrypted", "count", len(done))
	return done, errors.Join(errs...)
}
