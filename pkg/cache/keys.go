package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SolutionKey generates the cache key for a solve request. The key covers
// everything that affects the output: packages, ULDs, solver parameters,
// and the seed. Inputs are marshaled in order, so key stability follows
// from input ordering.
func SolutionKey(packages, ulds, params any, seed int64) string {
	return hashKey("solution", packages, ulds, params, seed)
}
