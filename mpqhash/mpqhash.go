// Package mpqhash computes the MPQ string hash used both to derive
// stream-cipher keys and to index the archive's hash table.
package mpqhash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sc2-tools/mpq/enctable"
)

// Domain selects which 256-entry band of the encryption table seeds the
// hash accumulator. The same hash function yields four independent
// hashes of a string, one per domain.
type Domain uint8

// The four hash domains MPQ uses.
const (
	TableOffset Domain = 0
	HashA       Domain = 1
	HashB       Domain = 2
	Table       Domain = 3
)

func (d Domain) valid() bool {
	return d <= Table
}

// Well-known keys, used to decrypt the hash and block tables.
const (
	hashTableKeyName  = "(hash table)"
	blockTableKeyName = "(block table)"
)

var (
	// ErrInvalidHashType is returned when domain is not one of the four
	// defined hash domains.
	ErrInvalidHashType = errors.New("mpqhash: invalid hash type")

	// ErrUnhashableCharacter is returned when a character's table index
	// falls outside the table.
	ErrUnhashableCharacter = errors.New("mpqhash: unhashable character")
)

// Hash computes the MPQ hash of s under the given domain. The string is
// uppercased first (MPQ filenames are case-insensitive).
func Hash(table *enctable.Table, s string, domain Domain) (uint32, error) {
	if !domain.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidHashType, domain)
	}

	var s1, s2 uint64 = 0x7FED7FED, 0xEEEEEEEE

	upper := strings.ToUpper(s)
	for i := 0; i < len(upper); i++ {
		c := uint32(upper[i])

		idx := int(domain)<<8 + int(c)
		if idx < 0 || idx >= enctable.Size {
			return 0, fmt.Errorf("%w: index %d for domain %d", ErrUnhashableCharacter, idx, domain)
		}

		v := uint64(table.At(idx))
		s1 = (v ^ (s1 + s2)) & 0xFFFFFFFF
		s2 = (uint64(c) + s1 + s2 + (s2 << 5) + 3) & 0xFFFFFFFF
	}

	return uint32(s1), nil
}

// HashTableKey returns the decryption key for the archive's hash table:
// hash("(hash table)", Table).
func HashTableKey(table *enctable.Table) (uint32, error) {
	return Hash(table, hashTableKeyName, Table)
}

// BlockTableKey returns the decryption key for the archive's block
// table: hash("(block table)", Table).
func BlockTableKey(table *enctable.Table) (uint32, error) {
	return Hash(table, blockTableKeyName, Table)
}
