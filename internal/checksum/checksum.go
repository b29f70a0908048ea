// Package checksum fingerprints notes for optimistic concurrency.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/starford/noteflow/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Note returns the checksum of the user-editable fields of n.
// Fields are NUL-separated so that moving text between them changes the sum.
func Note(n models.Note) string {
	h := sha256.New()
	for _, field := range []string{n.Subject, n.Body, n.AISummary, n.FolderID} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
