// Package image implements the binary image container consumed by the
// low-power core loader.
//
// An image is laid out as a fixed header followed by the text, data and
// symbol sections, all multi-byte fields little-endian:
//
//	offset  size  field
//	0       4     magic 0x00706c75 ("ulp\0")
//	4       2     text offset (bytes from image start)
//	6       2     text size (bytes, multiple of 4, non-empty)
//	8       2     data size (bytes, multiple of 4)
//	10      2     bss size (bytes, multiple of 4)
//	12      2     symbol table size (bytes)
//	14      1     CRC-8 of text, data and symbol bytes
//	15      1     reserved
//
// The data section holds the initial values of the first retained-memory
// words; bss extends them with zeroed words. The symbol table exports
// retained word names to the host: each entry is a length-prefixed name
// followed by a 16-bit word index.
package image

import (
	"encoding/binary"
	"errors"

	"github.com/sigurn/crc8"
)

// Magic identifies an image ("ulp\0" in little-endian).
const Magic uint32 = 0x00706c75

// HeaderSize is the fixed header length in bytes.
const HeaderSize = 16

// WordSize is the width of a retained-memory word in bytes.
const WordSize = 4

// Decode errors.
var (
	ErrTruncated   = errors.New("truncated image")
	ErrBadMagic    = errors.New("bad image magic")
	ErrBadLayout   = errors.New("inconsistent image layout")
	ErrNoText      = errors.New("empty text section")
	ErrBadChecksum = errors.New("image checksum mismatch")
	ErrBadSymbols  = errors.New("malformed symbol table")
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// Header is the decoded image header.
type Header struct {
	Magic      uint32
	TextOffset uint16
	TextSize   uint16
	DataSize   uint16
	BssSize    uint16
	SymSize    uint16
	Checksum   uint8
}

// Symbol exports a retained-memory word to the host by name.
type Symbol struct {
	Name string
	Addr uint16
}

// Image is a decoded co-processor binary.
type Image struct {
	Header   Header
	Text     []byte
	Data     []uint32
	BssWords int
	Symbols  []Symbol
}

// Decode parses and validates an image. Any structural violation,
// including a checksum mismatch, fails the whole image.
func Decode(data []byte) (*Image, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncated
	}
	var hdr Header
	hdr.Magic = binary.LittleEndian.Uint32(data[0:])
	hdr.TextOffset = binary.LittleEndian.Uint16(data[4:])
	hdr.TextSize = binary.LittleEndian.Uint16(data[6:])
	hdr.DataSize = binary.LittleEndian.Uint16(data[8:])
	hdr.BssSize = binary.LittleEndian.Uint16(data[10:])
	hdr.SymSize = binary.LittleEndian.Uint16(data[12:])
	hdr.Checksum = data[14]

	if hdr.Magic != Magic {
		return nil, ErrBadMagic
	}
	if hdr.TextOffset < HeaderSize {
		return nil, ErrBadLayout
	}
	if hdr.TextSize == 0 {
		return nil, ErrNoText
	}
	if hdr.TextSize%WordSize != 0 || hdr.DataSize%WordSize != 0 || hdr.BssSize%WordSize != 0 {
		return nil, ErrBadLayout
	}
	total := int(hdr.TextOffset) + int(hdr.TextSize) + int(hdr.DataSize) + int(hdr.SymSize)
	if len(data) < total {
		return nil, ErrTruncated
	}
	if len(data) > total {
		return nil, ErrBadLayout
	}

	payload := data[hdr.TextOffset:total]
	if crc8.Checksum(payload, crcTable) != hdr.Checksum {
		return nil, ErrBadChecksum
	}

	img := &Image{
		Header:   hdr,
		Text:     payload[:hdr.TextSize],
		BssWords: int(hdr.BssSize) / WordSize,
	}
	dataBytes := payload[hdr.TextSize : int(hdr.TextSize)+int(hdr.DataSize)]
	img.Data = make([]uint32, 0, len(dataBytes)/WordSize)
	for i := 0; i < len(dataBytes); i += WordSize {
		img.Data = append(img.Data, binary.LittleEndian.Uint32(dataBytes[i:]))
	}
	syms, err := decodeSymbols(payload[int(hdr.TextSize)+int(hdr.DataSize):])
	if err != nil {
		return nil, err
	}
	img.Symbols = syms
	return img, nil
}

func decodeSymbols(data []byte) ([]Symbol, error) {
	var syms []Symbol
	seen := make(map[string]bool)
	for len(data) > 0 {
		nameLen := int(data[0])
		if nameLen == 0 || len(data) < 1+nameLen+2 {
			return nil, ErrBadSymbols
		}
		name := string(data[1 : 1+nameLen])
		if seen[name] {
			return nil, ErrBadSymbols
		}
		seen[name] = true
		syms = append(syms, Symbol{
			Name: name,
			Addr: binary.LittleEndian.Uint16(data[1+nameLen:]),
		})
		data = data[1+nameLen+2:]
	}
	return syms, nil
}

// Encode serializes the image with a freshly computed checksum.
func Encode(img *Image) ([]byte, error) {
	if len(img.Text) == 0 {
		return nil, ErrNoText
	}
	if len(img.Text)%WordSize != 0 {
		return nil, ErrBadLayout
	}
	symBytes, err := encodeSymbols(img.Symbols)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(img.Text)+len(img.Data)*WordSize+len(symBytes))
	payload = append(payload, img.Text...)
	var word [WordSize]byte
	for _, w := range img.Data {
		binary.LittleEndian.PutUint32(word[:], w)
		payload = append(payload, word[:]...)
	}
	payload = append(payload, symBytes...)

	out := make([]byte, HeaderSize, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], Magic)
	binary.LittleEndian.PutUint16(out[4:], HeaderSize)
	binary.LittleEndian.PutUint16(out[6:], uint16(len(img.Text)))
	binary.LittleEndian.PutUint16(out[8:], uint16(len(img.Data)*WordSize))
	binary.LittleEndian.PutUint16(out[10:], uint16(img.BssWords*WordSize))
	binary.LittleEndian.PutUint16(out[12:], uint16(len(symBytes)))
	out[14] = crc8.Checksum(payload, crcTable)
	return append(out, payload...), nil
}

func encodeSymbols(syms []Symbol) ([]byte, error) {
	var out []byte
	for _, sym := range syms {
		if sym.Name == "" || len(sym.Name) > 0xff {
			return nil, ErrBadSymbols
		}
		out = append(out, byte(len(sym.Name)))
		out = append(out, sym.Name...)
		var addr [2]byte
		binary.LittleEndian.PutUint16(addr[:], sym.Addr)
		out = append(out, addr[:]...)
	}
	return out, nil
}

// Symbol looks up an exported name.
func (img *Image) Symbol(name string) (Symbol, bool) {
	for _, sym := range img.Symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return Symbol{}, false
}

// RetainedWords is the number of retained-memory words the image claims,
// initialized data words followed by zeroed bss words.
func (img *Image) RetainedWords() int {
	return len(img.Data) + img.BssWords
}
