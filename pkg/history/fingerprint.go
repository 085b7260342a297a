// Package history stores past scan results keyed by content fingerprint,
// with in-memory, sqlite, and backend-backed implementations sharing one
// interface.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint hashes raw content into the hex digest used as a history key.
// Identical bytes always produce the same key regardless of filename, which
// is what makes cached-result lookups work.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintFile hashes a file's contents without loading it whole.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
