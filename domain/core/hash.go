package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeTableFingerprint hashes an exported table (header plus encoded rows)
// so two runs can be compared for byte-identical output without re-reading the
// files.
func ComputeTableFingerprint(header []string, rows [][]string) Hash {
	var data strings.Builder
	data.WriteString(strings.Join(header, ","))
	data.WriteString("\n")
	for _, row := range rows {
		data.WriteString(strings.Join(row, ","))
		data.WriteString("\n")
	}
	return NewHash([]byte(data.String()))
}
