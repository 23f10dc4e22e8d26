// Package hash provides the 64-bit channel-key hashing used to index trace
// channels by their source identifier.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a source identifier string. The same string
// always maps to the same key; distinct identifiers may collide, so lookups
// must verify the identifier after the hash match.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
