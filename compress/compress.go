// Package compress dispatches on an MPQ sector's one-byte compression
// tag to the codec that produced it.
package compress

import (
	"bytes"
	"compress/bzip2"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Recognized compression tags.
const (
	TagNone  byte = 0x00
	TagZlib  byte = 0x02
	TagBzip2 byte = 0x10
)

var (
	// ErrEmptyPayload is returned when Decompress is given a zero-length
	// buffer, which has no tag byte to dispatch on.
	ErrEmptyPayload = errors.New("compress: empty payload")

	// ErrUnsupportedCompression is returned for any tag this package
	// does not recognize, including composite bitmasks such as
	// IMPLODE|COMPRESS or the sparse/ADPCM bits. Those are out of
	// scope: this reader never chains codecs.
	ErrUnsupportedCompression = errors.New("compress: unsupported compression")
)

// Decompress reads data[0] as the compression tag and decompresses the
// remaining bytes, expecting wantSize plaintext bytes out. Data tagged
// TagNone is returned verbatim (sans the tag byte).
func Decompress(data []byte, wantSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	tag, payload := data[0], data[1:]
	switch tag {
	case TagNone:
		return payload, nil
	case TagZlib:
		return inflate(payload, wantSize)
	case TagBzip2:
		return bunzip2(payload, wantSize)
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnsupportedCompression, tag)
	}
}

func inflate(data []byte, wantSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compress: zlib: %w", err)
	}
	defer r.Close()

	out := make([]byte, wantSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("compress: zlib: %w", err)
	}
	return out[:n], nil
}

func bunzip2(data []byte, wantSize int) ([]byte, error) {
	r := bzip2.NewReader(bytes.NewReader(data))

	out := make([]byte, wantSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("compress: bzip2: %w", err)
	}
	return out[:n], nil
}
