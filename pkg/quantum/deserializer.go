package quantum

import (
	"fmt"
	"unicode/utf8"
	"unsafe"

	"github.com/dxforge/dxmachine/pkg/safety"
)

// Deserializer is a position-tracking cursor over a borrowed buffer. Every
// read validates bounds (and, for typed reads, alignment) through the
// safety package before any reinterpretation happens, so it is the entry
// point for buffers whose producer is untrusted or whose layout is not
// known statically.
//
// The Deserializer never owns or copies the buffer: returned views alias
// it, and any number of Deserializers may read the same buffer
// concurrently as long as nothing mutates it while they are alive.
//
// A failed read leaves the position unchanged.
type Deserializer struct {
	buf []byte
	pos int
}

// NewDeserializer starts a cursor at the beginning of buf.
func NewDeserializer(buf []byte) *Deserializer {
	return &Deserializer{buf: buf}
}

// Position returns the current cursor position.
func (d *Deserializer) Position() int { return d.pos }

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int { return len(d.buf) - d.pos }

// HasRemaining reports, without failing, whether at least n bytes are left.
func (d *Deserializer) HasRemaining(n int) bool {
	return n >= 0 && d.Remaining() >= n
}

// Skip advances the cursor by n bytes.
func (d *Deserializer) Skip(n int) error {
	if err := safety.CheckBounds(d.pos, n, len(d.buf)); err != nil {
		return err
	}
	d.pos += n
	return nil
}

// Seek moves the cursor to an absolute position.
func (d *Deserializer) Seek(pos int) error {
	if err := safety.CheckBounds(pos, 0, len(d.buf)); err != nil {
		return err
	}
	d.pos = pos
	return nil
}

// ReadBytes returns a view of the next n bytes and advances past them.
func (d *Deserializer) ReadBytes(n int) ([]byte, error) {
	if err := safety.CheckBounds(d.pos, n, len(d.buf)); err != nil {
		return nil, err
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadString returns the next n bytes as a borrowed, UTF-8-validated
// string. Invalid UTF-8 fails with ErrInvalidUTF8 and does not advance;
// the bytes were in bounds, they are just not text.
func (d *Deserializer) ReadString(n int) (string, error) {
	if err := safety.CheckBounds(d.pos, n, len(d.buf)); err != nil {
		return "", err
	}
	b := d.buf[d.pos : d.pos+n]
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w at position %d", ErrInvalidUTF8, d.pos)
	}
	d.pos += n
	if n == 0 {
		return "", nil
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}

// Read reinterprets the next unsafe.Sizeof(T) bytes as a *T after a full
// cast check, and advances past them. The returned pointer aliases the
// buffer.
func Read[T any](d *Deserializer) (*T, error) {
	p, size, err := castAt[T](d)
	if err != nil {
		return nil, err
	}
	d.pos += size
	return p, nil
}

// Peek is Read without advancing the cursor.
func Peek[T any](d *Deserializer) (*T, error) {
	p, _, err := castAt[T](d)
	return p, err
}

// ReadSlice reinterprets the next unsafe.Sizeof(T)*count bytes as a []T.
// The size computation is overflow-checked and bounds plus alignment are
// validated once for the whole slice, so the check cost is O(1) in count.
func ReadSlice[T any](d *Deserializer, count int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	total, err := safety.MulCount(size, count)
	if err != nil {
		return nil, err
	}
	if err := safety.CheckBounds(d.pos, total, len(d.buf)); err != nil {
		return nil, err
	}
	if total == 0 {
		return []T{}, nil
	}
	rem := d.buf[d.pos:]
	if err := safety.CheckAlignment[T](unsafe.Pointer(unsafe.SliceData(rem))); err != nil {
		return nil, err
	}
	s := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(rem))), count)
	d.pos += total
	return s, nil
}

func castAt[T any](d *Deserializer) (*T, int, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	rem := d.buf[d.pos:]
	if err := safety.CheckCast[T](rem); err != nil {
		return nil, 0, err
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(rem))), size, nil
}
