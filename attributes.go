package mpq

import "encoding/binary"

// Flags within the "(attributes)" special file, describing which
// per-block-table-entry arrays follow the version/flags header.
const (
	attrFlagCRC32    uint32 = 0x00000001
	attrFlagFileTime uint32 = 0x00000002
	attrFlagMD5      uint32 = 0x00000004
	attrFlagPatchBit uint32 = 0x00000008
)

// attributesFileName is the special file carrying per-file metadata
// (CRC32s, timestamps, MD5s, patch bits), documented by StormLib but
// not covered by spec.md itself.
const attributesFileName = "(attributes)"

// Attributes holds the decoded content of the "(attributes)" special
// file, when present.
type Attributes struct {
	Version uint32
	Flags   uint32

	// CRC32 is aligned to block table index and present iff Flags has
	// attrFlagCRC32 set; nil otherwise. This reader exposes it for
	// callers that want to cross-check extracted bytes themselves —
	// it never gates extraction on a match.
	CRC32 []uint32
}

// Attributes reads and decodes "(attributes)" if the archive carries
// one. It returns (nil, nil) if the file is absent.
func (a *Archive) Attributes() (*Attributes, error) {
	data, err := a.Read(attributesFileName)
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, nil
	}

	attrs := &Attributes{
		Version: binary.LittleEndian.Uint32(data[0:4]),
		Flags:   binary.LittleEndian.Uint32(data[4:8]),
	}

	offset := 8
	n := len(a.blockTable)

	if attrs.Flags&attrFlagCRC32 != 0 {
		need := offset + n*4
		if len(data) < need {
			return attrs, nil
		}
		attrs.CRC32 = make([]uint32, n)
		for i := 0; i < n; i++ {
			attrs.CRC32[i] = binary.LittleEndian.Uint32(data[offset+i*4:])
		}
	}

	return attrs, nil
}
