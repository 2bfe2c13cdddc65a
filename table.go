package mpq

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sc2-tools/mpq/enctable"
	"github.com/sc2-tools/mpq/mpqcrypt"
	"github.com/sc2-tools/mpq/mpqhash"
)

func sliceAt(buf []byte, off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+int64(n) > int64(len(buf)) {
		return nil, fmt.Errorf("%w: range [%d, %d) outside buffer of length %d", ErrIncompleteData, off, off+int64(n), len(buf))
	}
	return buf[off : off+int64(n)], nil
}

// parseHashTable decrypts and parses the hash table located at
// base+hdr.HashTableOffset.
func parseHashTable(buf []byte, base int64, hdr *ArchiveHeader, table *enctable.Table) ([]HashTableEntry, error) {
	key, err := mpqhash.HashTableKey(table)
	if err != nil {
		return nil, err
	}

	n := int(hdr.HashTableEntries)
	raw, err := sliceAt(buf, base+int64(hdr.HashTableOffset), n*16)
	if err != nil {
		return nil, err
	}

	plain := mpqcrypt.Decrypt(table, raw, key)
	if len(plain) < n*16 {
		return nil, errDecrypt(key)
	}

	entries := make([]HashTableEntry, n)
	r := bytes.NewReader(plain)
	for i := range entries {
		e := &entries[i]
		if err := binary.Read(r, binary.LittleEndian, &e.HashA); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.HashB); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.Locale); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.Platform); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.BlockIndex); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
	}

	return entries, nil
}

// parseBlockTable decrypts and parses the block table located at
// base+hdr.BlockTableOffset.
func parseBlockTable(buf []byte, base int64, hdr *ArchiveHeader, table *enctable.Table) ([]BlockTableEntry, error) {
	key, err := mpqhash.BlockTableKey(table)
	if err != nil {
		return nil, err
	}

	n := int(hdr.BlockTableEntries)
	raw, err := sliceAt(buf, base+int64(hdr.BlockTableOffset), n*16)
	if err != nil {
		return nil, err
	}

	plain := mpqcrypt.Decrypt(table, raw, key)
	if len(plain) < n*16 {
		return nil, errDecrypt(key)
	}

	entries := make([]BlockTableEntry, n)
	r := bytes.NewReader(plain)
	for i := range entries {
		e := &entries[i]
		if err := binary.Read(r, binary.LittleEndian, &e.Offset); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.ArchivedSize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.Size); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.Flags); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
		}
	}

	return entries, nil
}

// lookupHashEntry probes hashTable for name, starting at its canonical
// home slot and proceeding linearly until a match, an empty sentinel,
// or a full lap of the table.
func lookupHashEntry(hashTable []HashTableEntry, table *enctable.Table, name string) (*HashTableEntry, error) {
	n := uint32(len(hashTable))
	if n == 0 {
		return nil, errNotFound(name)
	}

	hA, err := mpqhash.Hash(table, name, mpqhash.HashA)
	if err != nil {
		return nil, err
	}
	hB, err := mpqhash.Hash(table, name, mpqhash.HashB)
	if err != nil {
		return nil, err
	}
	home, err := mpqhash.Hash(table, name, mpqhash.TableOffset)
	if err != nil {
		return nil, err
	}
	home %= n

	for i := uint32(0); i < n; i++ {
		idx := (home + i) % n
		e := &hashTable[idx]

		if e.BlockIndex == BlockIndexEmpty {
			break
		}
		if e.BlockIndex == BlockIndexDeleted {
			continue
		}
		if e.HashA == hA && e.HashB == hB {
			return e, nil
		}
	}

	return nil, errNotFound(name)
}
