// Package mpqcrypt implements the MPQ keyed stream cipher used to
// protect the hash table, the block table, and (for files that request
// it) per-sector offset tables.
package mpqcrypt

import (
	"encoding/binary"

	"github.com/sc2-tools/mpq/enctable"
)

// Decrypt decrypts ciphertext with the given key and returns the
// plaintext. Only floor(len(ciphertext)/4) little-endian 32-bit words
// are processed; any trailing bytes (not a multiple of four) are
// silently ignored, matching the format's guarantee that encrypted
// tables are always 16-byte aligned.
func Decrypt(table *enctable.Table, ciphertext []byte, key uint32) []byte {
	n := len(ciphertext) / 4
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		words[i] = binary.LittleEndian.Uint32(ciphertext[i*4:])
	}

	DecryptWords(table, words, key)

	plain := make([]byte, n*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(plain[i*4:], w)
	}
	return plain
}

// DecryptWords decrypts words in place. Decrypt uses it after splitting
// its input into little-endian words; callers that already hold words
// can use it directly.
func DecryptWords(table *enctable.Table, words []uint32, key uint32) {
	s1 := uint64(key)
	s2 := uint64(0xEEEEEEEE)

	for i, v := range words {
		s2 = (s2 + uint64(table.At(0x400+int(uint32(s1)&0xFF)))) & 0xFFFFFFFF

		p := (uint64(v) ^ (s1 + s2)) & 0xFFFFFFFF

		oldS1 := uint32(s1)
		notS1 := ^oldS1
		shifted := uint64(notS1) << 21
		s1 = ((shifted + 0x11111111) & 0xFFFFFFFF) | uint64(oldS1>>11)
		s1 &= 0xFFFFFFFF

		s2 = (p + s2 + (s2 << 5) + 3) & 0xFFFFFFFF

		words[i] = uint32(p)
	}
}
