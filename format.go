package mpq

// Block-entry flag bits. Names and values are contractual; they must
// match the MPQ format exactly.
const (
	FlagImplode      uint32 = 0x00000100 // PKWARE DCL compression; not supported by this reader.
	FlagCompress     uint32 = 0x00000200 // file is compressed with one of the supported codecs.
	FlagEncrypted    uint32 = 0x00010000 // file data is encrypted; not supported by this reader.
	FlagFixKey       uint32 = 0x00020000 // per-block key adjusted by offset and size; not supported.
	FlagSingleUnit   uint32 = 0x01000000 // file is stored as one block, not split into sectors.
	FlagDeleteMarker uint32 = 0x02000000 // block records a deleted file.
	FlagSectorCRC    uint32 = 0x04000000 // an extra sector-position entry trails the sector table.
	FlagExists       uint32 = 0x80000000 // block is a real file; otherwise it's free space.
)

// Sentinel block-index values in a hash table entry.
const (
	// BlockIndexEmpty marks a hash table slot that has never held a
	// file. Probing for a missing file stops here.
	BlockIndexEmpty uint32 = 0xFFFFFFFF

	// BlockIndexDeleted marks a slot that once held a file that was
	// later removed. Probing continues past it.
	BlockIndexDeleted uint32 = 0xFFFFFFFE
)

// UserDataHeader is the optional preamble preceding the archive header.
// It is present iff the buffer begins with the magic "MPQ\x1b".
type UserDataHeader struct {
	// UserDataSize is an advisory maximum for the user-data region;
	// it is not the exact size of Content.
	UserDataSize uint32

	// ArchiveHeaderOffset is the absolute offset, from the start of
	// the buffer, of the archive header that follows this preamble.
	ArchiveHeaderOffset uint32

	// Content is the raw user-data bytes, UserDataHeaderSize long.
	Content []byte
}

// ArchiveHeader is the fixed-layout record anchoring every subsequent
// offset in the archive.
type ArchiveHeader struct {
	// Offset is the absolute position of this header within the
	// buffer: 0 if there was no user-data preamble, otherwise the
	// preamble's ArchiveHeaderOffset.
	Offset int64

	HeaderSize        uint32
	ArchiveSize       uint32 // deprecated since format version 1
	FormatVersion     uint16
	SectorSizeShift   uint16
	HashTableOffset   uint32 // relative to Offset
	BlockTableOffset  uint32 // relative to Offset
	HashTableEntries  uint32
	BlockTableEntries uint32

	// Extended fields, present iff FormatVersion >= 1.
	ExtendedBlockTableOffset int64
	HashTableOffsetHigh      int16
	BlockTableOffsetHigh     int16
}

// SectorSize returns the logical sector size in bytes: 512 << shift.
func (h *ArchiveHeader) SectorSize() uint32 {
	return uint32(512) << h.SectorSizeShift
}

// HashTableEntry is one slot of the archive's probe-addressed hash
// table.
type HashTableEntry struct {
	HashA      uint32
	HashB      uint32
	Locale     uint16
	Platform   uint16
	BlockIndex uint32
}

// BlockTableEntry describes one stored region of the archive: a file,
// free space, or an unused slot.
type BlockTableEntry struct {
	Offset       uint32 // relative to the archive header's Offset
	ArchivedSize uint32 // bytes on disk
	Size         uint32 // plaintext bytes
	Flags        uint32
}

// IsCompressed reports whether the block's plaintext is larger than
// its on-disk footprint, which per the format means it was stored
// compressed regardless of the COMPRESS flag.
func (b *BlockTableEntry) IsCompressed() bool {
	return b.Size > b.ArchivedSize
}

// IsDeleted reports whether the block is a deletion marker.
func (b *BlockTableEntry) IsDeleted() bool {
	return b.Flags&FlagDeleteMarker != 0
}
