package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// HashAlgorithm represents the hashing algorithm to use
type HashAlgorithm string

const (
	SHA256 HashAlgorithm = "sha256"
)

// Hasher provides extensible hashing functionality
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a new hasher with the specified algorithm
func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{
		algorithm: algorithm,
	}
}

// DefaultHasher returns a hasher with the default algorithm
func DefaultHasher() *Hasher {
	return NewHasher(SHA256)
}

// Hash computes a hash of the input data
func (h *Hasher) Hash(data []byte) string {
	switch h.algorithm {
	case SHA256:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:])
	default:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:])
	}
}

// HashString computes a hash of a string
func (h *Hasher) HashString(s string) string {
	return h.Hash([]byte(s))
}

// HashJSON computes a hash of a JSON-serializable object.
// The hash is deterministic (same object = same hash).
func (h *Hasher) HashJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return h.Hash(data), nil
}

// HashFields computes a hash from multiple fields.
// Fields are sorted and concatenated with a delimiter for consistent hashing.
func (h *Hasher) HashFields(fields ...string) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)

	combined := strings.Join(sorted, "|")
	return h.HashString(combined)
}

// DatasetIdentifier generates a deterministic fingerprint for a tomography
// dataset based on its dimensions and angle count. Two loads of the same
// raw data produce the same fingerprint, which makes duplicate uploads
// visible in logs without comparing array contents.
type DatasetIdentifier struct {
	hasher *Hasher
}

// NewDatasetIdentifier creates a new dataset identifier
func NewDatasetIdentifier(hasher *Hasher) *DatasetIdentifier {
	if hasher == nil {
		hasher = DefaultHasher()
	}
	return &DatasetIdentifier{hasher: hasher}
}

// Fingerprint generates a deterministic hash for a dataset from its shape
// and projection-angle sequence length.
func (di *DatasetIdentifier) Fingerprint(shape []int, thetaCount int) string {
	fields := make([]string, 0, len(shape)+1)
	for i, dim := range shape {
		fields = append(fields, fmt.Sprintf("dim%d:%d", i, dim))
	}
	fields = append(fields, fmt.Sprintf("theta:%d", thetaCount))
	return di.hasher.HashFields(fields...)
}

// ShortFingerprint generates a short (8-character) fingerprint for display
func (di *DatasetIdentifier) ShortFingerprint(full string) string {
	if len(full) < 8 {
		return full
	}
	return full[:8]
}

// VerifyFingerprint checks if a fingerprint matches the expected dataset properties
func (di *DatasetIdentifier) VerifyFingerprint(fingerprint string, shape []int, thetaCount int) bool {
	return fingerprint == di.Fingerprint(shape, thetaCount)
}
