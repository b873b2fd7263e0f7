package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// hashKey builds a "prefix:hash" key from the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash computes the full SHA-256 hash of data as a 64 character hex
// string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyStage reports the stage a key belongs to ("gen", "def", "http")
// for cache observability hooks, tolerating scoped key prefixes.
func keyStage(key string) string {
	for _, stage := range []string{"gen", "def", "http"} {
		if strings.Contains(key, stage+":") {
			return stage
		}
	}
	return "other"
}
