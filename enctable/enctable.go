// Package enctable builds the 1280-entry lookup table that drives both
// the MPQ string hasher and the MPQ stream cipher.
//
// The table is produced by a seeded linear congruential generator and is
// deterministic: the same 1280 values come out on every platform, every
// run. Build it once and share it by reference.
package enctable

// Size is the number of entries in the table.
const Size = 1280

// Table is the precomputed MPQ encryption/hash lookup table.
//
// The zero value is not valid; use New or Shared.
type Table struct {
	values [Size]uint32
}

// At returns the entry at index i. It panics if i is out of range, the
// same as a plain array index would.
func (t *Table) At(i int) uint32 {
	return t.values[i]
}

var shared = build()

// Shared returns the process-wide table instance. It is safe to call
// from multiple goroutines and the returned table is never mutated
// after package init.
func Shared() *Table {
	return shared
}

// New builds a fresh table. Prefer Shared unless a private instance is
// required for some reason (benchmarking, isolation in tests); the
// values are always identical to Shared's.
func New() *Table {
	return build()
}

func build() *Table {
	t := &Table{}

	seed := uint32(0x00100001)
	for i := 0; i < 0x100; i++ {
		idx := i
		for j := 0; j < 5; j++ {
			seed = (seed*125 + 3) % 0x2AAAAB
			hi := (seed & 0xFFFF) << 16

			seed = (seed*125 + 3) % 0x2AAAAB
			lo := seed & 0xFFFF

			t.values[idx] = hi | lo
			idx += 0x100
		}
	}

	return t
}
