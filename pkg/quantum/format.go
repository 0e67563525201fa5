package quantum

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dxforge/dxmachine/pkg/safety"
)

// Format constants. SlotSize is part of format version 1; the 8-byte
// minimal descriptor form is not accepted.
const (
	// Magic identifies a quantum buffer ("DZ" on the wire).
	Magic uint16 = 0x5A44

	// Version is the current format version.
	Version byte = 1

	// FlagLittleEndian marks the payload byte order. Version 1 buffers
	// are always little-endian and always carry this flag.
	FlagLittleEndian byte = 0x01

	// HeaderSize is the fixed header length: magic(2) + version(1) + flags(1).
	HeaderSize = 4

	// SlotSize is the width of one slot-table descriptor.
	SlotSize = 16
)

var (
	// ErrBadMagic indicates the buffer does not start with the format magic.
	ErrBadMagic = errors.New("bad magic")

	// ErrUnsupportedVersion indicates a version byte this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrInvalidUTF8 indicates in-bounds bytes that are not valid UTF-8.
	// Distinct from the safety errors: the read itself was legal, the
	// bytes are just not text.
	ErrInvalidUTF8 = errors.New("invalid utf-8 sequence")
)

// Header is the decoded 4-byte buffer header.
type Header struct {
	Magic   uint16
	Version byte
	Flags   byte
}

// LittleEndian reports whether the payload byte-order flag is set.
func (h Header) LittleEndian() bool {
	return h.Flags&FlagLittleEndian != 0
}

// Validate checks magic and version.
func (h Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: %#04x", ErrBadMagic, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	return nil
}

// PutHeader writes the 4-byte header at the start of b. FlagLittleEndian is
// always added to flags. b must be at least HeaderSize bytes.
func PutHeader(b []byte, flags byte) {
	binary.LittleEndian.PutUint16(b[0:], Magic)
	b[2] = Version
	b[3] = flags | FlagLittleEndian
}

// ParseHeader decodes the header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	if err := safety.CheckBounds(0, HeaderSize, len(b)); err != nil {
		return Header{}, err
	}
	return Header{
		Magic:   binary.LittleEndian.Uint16(b[0:]),
		Version: b[2],
		Flags:   b[3],
	}, nil
}
