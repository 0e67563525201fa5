package safety

import (
	"errors"
	"fmt"
)

// ErrOverflow indicates that a size computation (element size * count, or
// offset + length) overflowed the platform's address width. Callers should
// treat it like a buffer that is too small: reject the input.
var ErrOverflow = errors.New("size computation overflows address width")

// BufferTooSmallError reports a read or reinterpretation that would run past
// the end of the buffer. It is always recoverable: the caller can wait for
// more data or reject the record.
type BufferTooSmallError struct {
	Needed int // bytes required to satisfy the access
	Actual int // bytes available
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("buffer too small: need %d bytes, have %d", e.Needed, e.Actual)
}

// MisalignedError reports a pointer that does not satisfy the alignment a
// typed cast requires. It indicates a malformed or adversarial buffer and is
// never silently corrected.
type MisalignedError struct {
	Addr  uintptr // the offending address
	Align int     // required alignment
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("misaligned access: address %#x requires %d-byte alignment", e.Addr, e.Align)
}

// IsBufferTooSmall reports whether err is (or wraps) a BufferTooSmallError
// or ErrOverflow, the two "not enough bytes" conditions.
func IsBufferTooSmall(err error) bool {
	var bts *BufferTooSmallError
	return errors.As(err, &bts) || errors.Is(err, ErrOverflow)
}
