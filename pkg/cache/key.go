package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Key identifies a cached board snapshot: one board (identified by a token
// digest, never the raw credential) plus the status filter it was loaded
// with.
type Key struct {
	// Board is a stable board identifier, typically from BoardID.
	Board string

	// Statuses is the status filter the snapshot was loaded with
	// (empty = all statuses).
	Statuses []string
}

// BoardID derives a stable board identifier from a bearer token. Only a
// digest prefix is used so the credential never appears in redis keys.
func BoardID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// String generates a deterministic cache key string.
// Format: board:snapshot:<board>:statuses=<a,b,c>
//
// Status names are lowercased and sorted so filter order never splits the
// cache.
func (k Key) String() string {
	parts := []string{"board", "snapshot", k.Board}

	if len(k.Statuses) > 0 {
		statuses := make([]string, 0, len(k.Statuses))
		for _, s := range k.Statuses {
			statuses = append(statuses, strings.ToLower(strings.TrimSpace(s)))
		}
		sort.Strings(statuses)
		parts = append(parts, "statuses="+strings.Join(statuses, ","))
	}

	return strings.Join(parts, ":")
}
