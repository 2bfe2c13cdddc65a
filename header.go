package mpq

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

var (
	userDataMagic = [4]byte{'M', 'P', 'Q', 0x1B}
	headerMagic   = [4]byte{'M', 'P', 'Q', 0x1A}
)

// parseHeader reads the optional user-data header followed by the
// mandatory archive header from buf. It returns a nil *UserDataHeader
// if none was present.
func parseHeader(buf []byte) (*UserDataHeader, *ArchiveHeader, error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("%w: buffer shorter than a magic", ErrIncompleteData)
	}

	var magic [4]byte
	copy(magic[:], buf[:4])

	if magic != userDataMagic && magic != headerMagic {
		return nil, nil, fmt.Errorf("%w: bytes %q", ErrUnexpectedSection, buf[:min(4, len(buf))])
	}

	var ud *UserDataHeader
	headerStart := int64(0)

	if magic == userDataMagic {
		u, archiveHeaderOffset, err := parseUserDataHeader(buf)
		if err != nil {
			return nil, nil, err
		}
		ud = u
		headerStart = int64(archiveHeaderOffset)

		if headerStart+4 > int64(len(buf)) {
			return nil, nil, fmt.Errorf("%w: archive header offset %d past end of buffer", ErrMissingArchiveHeader, headerStart)
		}
		var next [4]byte
		copy(next[:], buf[headerStart:headerStart+4])
		if next != headerMagic {
			if next == userDataMagic {
				return nil, nil, fmt.Errorf("%w: nested user-data header", ErrUnexpectedSection)
			}
			return nil, nil, fmt.Errorf("%w: expected archive header at offset %d", ErrMissingArchiveHeader, headerStart)
		}
	}

	hdr, err := parseArchiveHeader(buf, headerStart)
	if err != nil {
		return nil, nil, err
	}

	return ud, hdr, nil
}

func parseUserDataHeader(buf []byte) (*UserDataHeader, uint32, error) {
	const fixedSize = 16 // magic(4) + size(4) + headerOffset(4) + headerSize(4)
	if len(buf) < fixedSize {
		return nil, 0, fmt.Errorf("%w: user data header truncated", ErrIncompleteData)
	}

	u := &UserDataHeader{
		UserDataSize:        binary.LittleEndian.Uint32(buf[4:8]),
		ArchiveHeaderOffset: binary.LittleEndian.Uint32(buf[8:12]),
	}
	contentSize := binary.LittleEndian.Uint32(buf[12:16])

	if int64(u.ArchiveHeaderOffset) < int64(fixedSize)+int64(contentSize) {
		return nil, 0, fmt.Errorf("%w: archive header offset %d precedes end of user data header", ErrIncompleteData, u.ArchiveHeaderOffset)
	}

	end := int64(fixedSize) + int64(contentSize)
	if end > int64(len(buf)) {
		return nil, 0, fmt.Errorf("%w: user data content truncated", ErrIncompleteData)
	}
	u.Content = append([]byte(nil), buf[fixedSize:end]...)

	return u, u.ArchiveHeaderOffset, nil
}

// parseArchiveHeader reads the archive header's fixed fields, plus the
// extended tail when FormatVersion >= 1, starting at absolute offset
// base within buf.
func parseArchiveHeader(buf []byte, base int64) (*ArchiveHeader, error) {
	const fixedSize = 0x20
	if base < 0 || base+fixedSize > int64(len(buf)) {
		return nil, fmt.Errorf("%w: archive header truncated", ErrIncompleteData)
	}

	r := bytes.NewReader(buf[base : base+fixedSize])
	// Skip the 4-byte magic; parseHeader already validated it.
	if _, err := r.Seek(4, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteData, err)
	}

	h := &ArchiveHeader{Offset: base}
	var readErr error
	read := func(v interface{}) {
		if readErr != nil {
			return
		}
		readErr = binary.Read(r, binary.LittleEndian, v)
	}

	read(&h.HeaderSize)
	read(&h.ArchiveSize)
	read(&h.FormatVersion)
	read(&h.SectorSizeShift)
	read(&h.HashTableOffset)
	read(&h.BlockTableOffset)
	read(&h.HashTableEntries)
	read(&h.BlockTableEntries)
	if readErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteData, readErr)
	}

	if h.FormatVersion >= 1 {
		const extSize = 12
		if base+fixedSize+extSize > int64(len(buf)) {
			return nil, fmt.Errorf("%w: extended header truncated", ErrIncompleteData)
		}
		er := bytes.NewReader(buf[base+fixedSize : base+fixedSize+extSize])
		ext := func(v interface{}) {
			if readErr != nil {
				return
			}
			readErr = binary.Read(er, binary.LittleEndian, v)
		}
		ext(&h.ExtendedBlockTableOffset)
		ext(&h.HashTableOffsetHigh)
		ext(&h.BlockTableOffsetHigh)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteData, readErr)
		}
	}

	return h, nil
}
