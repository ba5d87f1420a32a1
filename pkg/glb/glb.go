// Package glb encodes and decodes the GLB binary container used by glTF 2.0.
package glb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// GLB format errors.
var (
	ErrInvalidMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedVersion = errors.New("unsupported GLB version")
	ErrLengthMismatch     = errors.New("GLB length field does not match data length")
	ErrTruncated          = errors.New("truncated GLB data")
	ErrUnexpectedChunk    = errors.New("first GLB chunk must be JSON")
	ErrUnknownChunk       = errors.New("unknown GLB chunk type")
	ErrTooLarge           = errors.New("GLB exceeds 4 GiB")
)

// Magic is the first four bytes of every GLB stream.
const Magic = "glTF"

// Version is the only container version this package reads and writes.
const Version uint32 = 2

// HeaderSize and ChunkHeaderSize are the fixed byte sizes of the framing records.
const (
	HeaderSize      = 12
	ChunkHeaderSize = 8
)

// ChunkType identifies the payload of a chunk.
type ChunkType uint32

// Chunk types, stored little-endian as their ASCII tags.
const (
	ChunkJSON ChunkType = 0x4E4F534A // "JSON"
	ChunkBIN  ChunkType = 0x004E4942 // "BIN\0"
)

// String returns the chunk tag.
func (t ChunkType) String() string {
	switch t {
	case ChunkJSON:
		return "JSON"
	case ChunkBIN:
		return "BIN"
	default:
		return fmt.Sprintf("Unknown(0x%08X)", uint32(t))
	}
}

// Header is the 12-byte file header.
type Header struct {
	Magic   [4]byte
	Version uint32
	Length  uint32
}

// ChunkHeader precedes every chunk payload.
type ChunkHeader struct {
	Length uint32
	Type   ChunkType
}

// GLB is a decoded container: the JSON document text and the optional binary payload.
type GLB struct {
	Header Header
	// JSON holds the chunk payload as stored, including trailing space padding.
	JSON []byte
	// Bin is nil when the container has no BIN chunk.
	Bin []byte
}

// PaddedLength rounds n up to the next multiple of 4.
func PaddedLength(n int) int {
	return (n + 3) &^ 3
}

// Decode parses a GLB container from raw bytes. The returned slices alias data.
func Decode(data []byte) (*GLB, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderSize, len(data))
	}

	var h Header
	copy(h.Magic[:], data[0:4])
	if string(h.Magic[:]) != Magic {
		return nil, ErrInvalidMagic
	}

	h.Version = binary.LittleEndian.Uint32(data[4:8])
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	h.Length = binary.LittleEndian.Uint32(data[8:12])
	if uint64(h.Length) != uint64(len(data)) {
		return nil, fmt.Errorf("%w: header says %d, have %d", ErrLengthMismatch, h.Length, len(data))
	}

	g := &GLB{Header: h}
	rest := data[HeaderSize:]

	ch, payload, rest, err := readChunk(rest)
	if err != nil {
		return nil, err
	}
	if ch.Type != ChunkJSON {
		return nil, fmt.Errorf("%w: got %s", ErrUnexpectedChunk, ch.Type)
	}
	g.JSON = payload

	if len(rest) == 0 {
		return g, nil
	}

	ch, payload, _, err = readChunk(rest)
	if err != nil {
		return nil, err
	}
	if ch.Type != ChunkBIN {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChunk, ch.Type)
	}
	g.Bin = payload

	return g, nil
}

func readChunk(data []byte) (ChunkHeader, []byte, []byte, error) {
	var ch ChunkHeader
	if len(data) < ChunkHeaderSize {
		return ch, nil, nil, fmt.Errorf("%w: chunk header needs %d bytes, have %d", ErrTruncated, ChunkHeaderSize, len(data))
	}
	ch.Length = binary.LittleEndian.Uint32(data[0:4])
	ch.Type = ChunkType(binary.LittleEndian.Uint32(data[4:8]))
	data = data[ChunkHeaderSize:]
	if uint64(ch.Length) > uint64(len(data)) {
		return ch, nil, nil, fmt.Errorf("%w: %s chunk needs %d bytes, have %d", ErrTruncated, ch.Type, ch.Length, len(data))
	}
	return ch, data[:ch.Length], data[ch.Length:], nil
}

// DecodeFile reads and decodes a GLB file from disk.
func DecodeFile(path string) (*GLB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GLB file: %w", err)
	}
	return Decode(data)
}

// Split decodes data and returns the JSON and BIN payloads.
func Split(data []byte) (jsonData, bin []byte, err error) {
	g, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return g.JSON, g.Bin, nil
}

// New builds a container around a JSON document and optional binary payload.
func New(jsonData, bin []byte) *GLB {
	return &GLB{
		Header: Header{Magic: [4]byte{'g', 'l', 'T', 'F'}, Version: Version},
		JSON:   jsonData,
		Bin:    bin,
	}
}

// Size returns the total encoded length: the header plus each chunk header and padded payload.
func (g *GLB) Size() uint64 {
	n := uint64(HeaderSize) + ChunkHeaderSize + uint64(PaddedLength(len(g.JSON)))
	if g.Bin != nil {
		n += ChunkHeaderSize + uint64(PaddedLength(len(g.Bin)))
	}
	return n
}

// Encode serializes the container, padding JSON with spaces and BIN with zeros.
func (g *GLB) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := g.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded container to w.
func (g *GLB) WriteTo(w io.Writer) (int64, error) {
	size := g.Size()
	if size > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Magic...)
	buf = binary.LittleEndian.AppendUint32(buf, Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size))
	buf = appendChunk(buf, ChunkJSON, g.JSON, ' ')
	if g.Bin != nil {
		buf = appendChunk(buf, ChunkBIN, g.Bin, 0)
	}

	n, err := w.Write(buf)
	return int64(n), err
}

func appendChunk(buf []byte, t ChunkType, payload []byte, pad byte) []byte {
	padded := PaddedLength(len(payload))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(padded))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(t))
	buf = append(buf, payload...)
	for i := len(payload); i < padded; i++ {
		buf = append(buf, pad)
	}
	return buf
}
