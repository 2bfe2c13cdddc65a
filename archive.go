// Package mpq reads MoPaQ (MPQ) archives: the container format Blizzard
// games use, notably for StarCraft II replays. It parses a complete,
// already-loaded byte buffer into an in-memory Archive from which
// individual embedded files can be enumerated and extracted.
//
// Files stored encrypted within an archive, the IMPLODE compression
// method, FIX_KEY per-file keys, and digital signatures are out of
// scope; see DESIGN.md for the reasoning. This package never writes or
// modifies an archive.
package mpq

import (
	"strings"

	"github.com/sc2-tools/mpq/enctable"
)

// listfileName is the conventional special file enumerating every
// other file's path within the archive.
const listfileName = "(listfile)"

// Archive is the in-memory representation of a parsed MPQ archive. It
// is immutable after Open returns and safe for concurrent use by
// multiple goroutines: Read, List, and Lookup take no locks because
// nothing about an Archive changes after construction.
type Archive struct {
	buf []byte

	userData *UserDataHeader
	header   ArchiveHeader

	hashTable  []HashTableEntry
	blockTable []BlockTableEntry

	table      *enctable.Table
	sectorSize uint32
}

// Open parses buf as a complete MPQ archive: the optional user-data
// header, the archive header, and both internal tables. buf must
// outlive every subsequent Read call on the returned Archive; no bytes
// are copied out except what a given Read returns.
func Open(buf []byte) (*Archive, error) {
	ud, hdr, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	table := enctable.Shared()

	hashTable, err := parseHashTable(buf, hdr.Offset, hdr, table)
	if err != nil {
		return nil, err
	}

	blockTable, err := parseBlockTable(buf, hdr.Offset, hdr, table)
	if err != nil {
		return nil, err
	}

	return &Archive{
		buf:        buf,
		userData:   ud,
		header:     *hdr,
		hashTable:  hashTable,
		blockTable: blockTable,
		table:      table,
		sectorSize: hdr.SectorSize(),
	}, nil
}

// Header returns the parsed archive header.
func (a *Archive) Header() ArchiveHeader {
	return a.header
}

// UserData returns the optional user-data header, or nil if the
// archive had none.
func (a *Archive) UserData() *UserDataHeader {
	return a.userData
}

// HashTable returns the archive's hash table entries.
func (a *Archive) HashTable() []HashTableEntry {
	return a.hashTable
}

// BlockTable returns the archive's block table entries.
func (a *Archive) BlockTable() []BlockTableEntry {
	return a.blockTable
}

// Lookup resolves name to its hash table entry and block table entry.
// The third return value is false if the hash table has no entry for
// name, or if the entry's block index is out of range. Callers that
// need to distinguish "file absent" from "file present but empty"
// should use Lookup rather than Read.
func (a *Archive) Lookup(name string) (*HashTableEntry, *BlockTableEntry, bool) {
	entry, err := lookupHashEntry(a.hashTable, a.table, name)
	if err != nil {
		return nil, nil, false
	}
	if entry.BlockIndex >= uint32(len(a.blockTable)) {
		return nil, nil, false
	}
	return entry, &a.blockTable[entry.BlockIndex], true
}

// Read returns the plaintext bytes of the named file. It returns a nil
// slice and nil error if the file isn't present, is a tombstone, or is
// zero length; it never returns an error for "not found" (that failure
// mode is silent by design, so that List can skip stale listfile
// entries without the whole archive becoming unusable). An error here
// means the entry was found but could not be decoded: an unsupported
// compression tag, an encrypted block, or truncated sector data.
func (a *Archive) Read(name string) ([]byte, error) {
	_, block, ok := a.Lookup(name)
	if !ok {
		return nil, nil
	}
	return readFile(a.buf, a.header.Offset, block, a.sectorSize, false)
}

// FileInfo describes one entry returned by List.
type FileInfo struct {
	Name string
	Size uint32
}

// List extracts the embedded "(listfile)" and resolves each line
// against the hash table, returning the files the archive actually
// knows about. Lines that don't resolve to a hash table entry are
// skipped with a warning log rather than failing the whole listing,
// since stale listfile entries are common in the wild. Deleted
// entries are skipped silently.
func (a *Archive) List() ([]FileInfo, error) {
	data, err := a.Read(listfileName)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var out []FileInfo
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		_, block, ok := a.Lookup(line)
		if !ok {
			warnUnresolvedListEntry(line)
			continue
		}
		if block.IsDeleted() {
			continue
		}

		out = append(out, FileInfo{Name: line, Size: block.Size})
	}

	return out, nil
}
