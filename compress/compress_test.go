package compress

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func TestDecompressPlaintext(t *testing.T) {
	payload := []byte("hello sector")
	data := append([]byte{TagNone}, payload...)

	got, err := Decompress(data, len(payload))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestDecompressZlib(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compression to matter")
	compressed := zlibCompress(t, want)
	data := append([]byte{TagZlib}, compressed...)

	got, err := Decompress(data, len(want))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecompressUnsupportedTag(t *testing.T) {
	data := []byte{0x08, 0xAA, 0xBB} // IMPLODE, explicitly out of scope
	_, err := Decompress(data, 10)
	if !errors.Is(err, ErrUnsupportedCompression) {
		t.Fatalf("expected ErrUnsupportedCompression, got %v", err)
	}
}

func TestDecompressCompositeTagUnsupported(t *testing.T) {
	// IMPLODE|COMPRESS composite mask: must fail loudly, not silently
	// pick one codec.
	data := []byte{0x08 | 0x02, 0xAA}
	_, err := Decompress(data, 10)
	if !errors.Is(err, ErrUnsupportedCompression) {
		t.Fatalf("expected ErrUnsupportedCompression, got %v", err)
	}
}

func TestDecompressEmpty(t *testing.T) {
	_, err := Decompress(nil, 10)
	if !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}
