package mpqhash

import (
	"errors"
	"testing"

	"github.com/sc2-tools/mpq/enctable"
)

func TestWellKnownKeys(t *testing.T) {
	tbl := enctable.Shared()

	got, err := HashTableKey(tbl)
	if err != nil {
		t.Fatalf("HashTableKey: %v", err)
	}
	if got != 0xC3AF3770 {
		t.Errorf("hash table key = 0x%08X, want 0xC3AF3770", got)
	}

	got, err = BlockTableKey(tbl)
	if err != nil {
		t.Fatalf("BlockTableKey: %v", err)
	}
	if got != 0xEC83B3A3 {
		t.Errorf("block table key = 0x%08X, want 0xEC83B3A3", got)
	}
}

func TestHashIsCaseInsensitive(t *testing.T) {
	tbl := enctable.Shared()

	names := []string{"replay.details", "Replay\\Game.Events", "(listfile)"}
	domains := []Domain{TableOffset, HashA, HashB, Table}

	for _, name := range names {
		for _, d := range domains {
			lower, err := Hash(tbl, strLower(name), d)
			if err != nil {
				t.Fatalf("hash(%q, %d): %v", name, d, err)
			}
			upper, err := Hash(tbl, strUpper(name), d)
			if err != nil {
				t.Fatalf("hash(%q, %d): %v", name, d, err)
			}
			if lower != upper {
				t.Errorf("hash(%q) case mismatch under domain %d: %08X != %08X", name, d, lower, upper)
			}
		}
	}
}

func TestInvalidHashType(t *testing.T) {
	tbl := enctable.Shared()
	_, err := Hash(tbl, "whatever", Domain(4))
	if !errors.Is(err, ErrInvalidHashType) {
		t.Fatalf("expected ErrInvalidHashType, got %v", err)
	}
}

func strLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 0x20
		}
	}
	return string(b)
}

func strUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 0x20
		}
	}
	return string(b)
}
