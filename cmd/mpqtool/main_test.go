package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/urfave/cli/v2"

	"github.com/sc2-tools/mpq"
	"github.com/sc2-tools/mpq/enctable"
	"github.com/sc2-tools/mpq/mpqhash"
)

// buildMinimalArchive assembles a two-file, single-unit MPQ archive — a
// "(listfile)" naming the one real entry, "greeting.txt" — just enough to
// drive the CLI's commands end to end.
func buildMinimalArchive(t *testing.T) []byte {
	t.Helper()
	tbl := enctable.Shared()

	const hashTableEntries = 2
	const blockTableEntries = 2
	const headerSize = 0x20
	const hashTableOffset = headerSize
	const blockTableOffset = hashTableOffset + hashTableEntries*16
	const dataStart = blockTableOffset + blockTableEntries*16

	greeting := []byte("hello from mpqtool\n")
	listfile := []byte("greeting.txt\n")

	blockTablePlain := make([]byte, blockTableEntries*16)
	putBlock(blockTablePlain, 0, uint32(dataStart), uint32(len(greeting)), uint32(len(greeting)), mpq.FlagExists|mpq.FlagSingleUnit)
	putBlock(blockTablePlain, 1, uint32(dataStart+len(greeting)), uint32(len(listfile)), uint32(len(listfile)), mpq.FlagExists|mpq.FlagSingleUnit)

	blockKey, err := mpqhash.BlockTableKey(tbl)
	require.NoError(t, err)
	blockTableCipher := encryptWords(tbl, blockTablePlain, blockKey)

	hashTablePlain := buildHashTable(t, tbl, hashTableEntries, map[string]uint32{
		"greeting.txt": 0,
		"(listfile)":   1,
	})

	hashKey, err := mpqhash.HashTableKey(tbl)
	require.NoError(t, err)
	hashTableCipher := encryptWords(tbl, hashTablePlain, hashKey)

	var buf bytes.Buffer
	buf.Write([]byte{'M', 'P', 'Q', 0x1A})
	writeU32To(&buf, headerSize)
	writeU32To(&buf, uint32(dataStart+len(greeting)+len(listfile)))
	writeU16To(&buf, 0)
	writeU16To(&buf, 3) // sector size shift, unused by single-unit files
	writeU32To(&buf, hashTableOffset)
	writeU32To(&buf, blockTableOffset)
	writeU32To(&buf, hashTableEntries)
	writeU32To(&buf, blockTableEntries)
	buf.Write(hashTableCipher)
	buf.Write(blockTableCipher)
	buf.Write(greeting)
	buf.Write(listfile)

	return buf.Bytes()
}

func putBlock(buf []byte, index int, offset, archivedSize, size, flags uint32) {
	off := index * 16
	binary.LittleEndian.PutUint32(buf[off:], offset)
	binary.LittleEndian.PutUint32(buf[off+4:], archivedSize)
	binary.LittleEndian.PutUint32(buf[off+8:], size)
	binary.LittleEndian.PutUint32(buf[off+12:], flags)
}

// buildHashTable linearly probes each name into its home slot, mirroring
// the reader's own probe order exactly, and fills every other slot with the
// empty-block sentinel.
func buildHashTable(t *testing.T, tbl *enctable.Table, tableSize uint32, entries map[string]uint32) []byte {
	t.Helper()

	type slot struct {
		hashA, hashB, blockIndex uint32
		used                     bool
	}
	slots := make([]slot, tableSize)

	for name, blockIndex := range entries {
		hA, err := mpqhash.Hash(tbl, name, mpqhash.HashA)
		require.NoError(t, err)
		hB, err := mpqhash.Hash(tbl, name, mpqhash.HashB)
		require.NoError(t, err)
		home, err := mpqhash.Hash(tbl, name, mpqhash.TableOffset)
		require.NoError(t, err)
		home %= tableSize

		placed := false
		for i := uint32(0); i < tableSize; i++ {
			idx := (home + i) % tableSize
			if !slots[idx].used {
				slots[idx] = slot{hashA: hA, hashB: hB, blockIndex: blockIndex, used: true}
				placed = true
				break
			}
		}
		require.True(t, placed, "hash table too small to place %q", name)
	}

	buf := make([]byte, tableSize*16)
	for i, s := range slots {
		off := i * 16
		if s.used {
			binary.LittleEndian.PutUint32(buf[off:], s.hashA)
			binary.LittleEndian.PutUint32(buf[off+4:], s.hashB)
			binary.LittleEndian.PutUint32(buf[off+12:], s.blockIndex)
		} else {
			binary.LittleEndian.PutUint32(buf[off:], mpq.BlockIndexEmpty)
			binary.LittleEndian.PutUint32(buf[off+4:], mpq.BlockIndexEmpty)
			binary.LittleEndian.PutUint16(buf[off+8:], 0xFFFF)
			binary.LittleEndian.PutUint16(buf[off+10:], 0xFFFF)
			binary.LittleEndian.PutUint32(buf[off+12:], mpq.BlockIndexEmpty)
		}
	}
	return buf
}

// encryptWords is the same known-plaintext table cipher used by the mpq
// package's own archive tests, duplicated here because it's test-only
// scaffolding, not something production code exports.
func encryptWords(table *enctable.Table, plain []byte, key uint32) []byte {
	n := len(plain) / 4
	words := make([]uint32, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(plain[i*4:])
	}

	s1 := uint64(key)
	s2 := uint64(0xEEEEEEEE)
	for i, v := range words {
		s2 = (s2 + uint64(table.At(0x400+int(uint32(s1)&0xFF)))) & 0xFFFFFFFF
		c := (uint64(v) ^ (s1 + s2)) & 0xFFFFFFFF

		oldS1 := uint32(s1)
		notS1 := ^oldS1
		shifted := uint64(notS1) << 21
		s1 = ((shifted + 0x11111111) & 0xFFFFFFFF) | uint64(oldS1>>11)
		s1 &= 0xFFFFFFFF

		s2 = (uint64(v) + s2 + (s2 << 5) + 3) & 0xFFFFFFFF
		words[i] = uint32(c)
	}

	out := make([]byte, n*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func writeU32To(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16To(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

type CLITestSuite struct {
	suite.Suite
	archivePath string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) SetupTest() {
	dir := s.T().TempDir()
	s.archivePath = filepath.Join(dir, "fixture.s2ma")
	require.NoError(s.T(), os.WriteFile(s.archivePath, buildMinimalArchive(s.T()), 0o644))
}

// runApp invokes the real CLI commands in-process and returns whatever the
// action wrote to standard output.
func (s *CLITestSuite) runApp(args ...string) (string, error) {
	app := &cli.App{
		Name: "mpqtool",
		Commands: []*cli.Command{
			newCmdList(),
			newCmdExtractFile(),
			newCmdExtractHeader(),
		},
	}

	r, w, err := os.Pipe()
	s.Require().NoError(err)
	orig := os.Stdout
	os.Stdout = w

	runErr := app.Run(append([]string{"mpqtool"}, args...))

	w.Close()
	os.Stdout = orig
	out, err := io.ReadAll(r)
	s.Require().NoError(err)

	return string(out), runErr
}

func (s *CLITestSuite) TestListPrintsListfileEntries() {
	out, err := s.runApp("list", s.archivePath)
	s.Require().NoError(err)
	s.Equal("greeting.txt 19\n", out)
}

func (s *CLITestSuite) TestExtractFileWritesPlaintext() {
	out, err := s.runApp("extract-file", "--name", "greeting.txt", s.archivePath)
	s.Require().NoError(err)
	s.Equal("hello from mpqtool\n", out)
}

func (s *CLITestSuite) TestExtractFileMissingNameErrors() {
	_, err := s.runApp("extract-file", "--name", "does-not-exist.txt", s.archivePath)
	s.Error(err)
}

func (s *CLITestSuite) TestExtractHeaderRejectsUnknownName() {
	_, err := s.runApp("extract-header", "--name", "bogus", s.archivePath)
	s.Error(err)
}

func (s *CLITestSuite) TestExtractHeaderNoUserDataErrors() {
	_, err := s.runApp("extract-header", "--name", userDataContentName, s.archivePath)
	s.Error(err)
}
