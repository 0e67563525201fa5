// Package safety contains the bounds, alignment, and cast checks that gate
// every raw byte reinterpretation in the engine.
//
// These are the only functions allowed to approve an unsafe.Pointer cast.
// Higher layers (the quantum.Deserializer, generated accessors) must route
// through one of them before treating bytes as a typed value, so that the
// unchecked step stays a single, auditable kernel.
//
// All checks are pure: no I/O, no allocation, no panics. Failure is always
// returned as an error.
package safety

import "unsafe"

// CheckBounds reports whether the half-open range [offset, offset+length)
// fits in a buffer of bufLen bytes. The addition is overflow-checked; an
// overflowing range fails with ErrOverflow rather than wrapping around.
func CheckBounds(offset, length, bufLen int) error {
	if offset < 0 || length < 0 {
		return ErrOverflow
	}
	end := offset + length
	if end < offset {
		return ErrOverflow
	}
	if end > bufLen {
		return &BufferTooSmallError{Needed: end, Actual: bufLen}
	}
	return nil
}

// CheckAlignment reports whether p satisfies the alignment required by T.
func CheckAlignment[T any](p unsafe.Pointer) error {
	var zero T
	align := int(unsafe.Alignof(zero))
	if uintptr(p)%uintptr(align) != 0 {
		return &MisalignedError{Addr: uintptr(p), Align: align}
	}
	return nil
}

// CheckCast reports whether b can be reinterpreted as a value of type T:
// the slice must hold at least unsafe.Sizeof(T) bytes and its first byte
// must be aligned for T. A zero-sized T always passes.
func CheckCast[T any](b []byte) error {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil
	}
	if err := CheckBounds(0, size, len(b)); err != nil {
		return err
	}
	return CheckAlignment[T](unsafe.Pointer(unsafe.SliceData(b)))
}

// MulCount computes size * count with overflow checking, for sizing typed
// slice reads. Both operands must be non-negative.
func MulCount(size, count int) (int, error) {
	if size < 0 || count < 0 {
		return 0, ErrOverflow
	}
	if size == 0 || count == 0 {
		return 0, nil
	}
	total := size * count
	if total/size != count {
		return 0, ErrOverflow
	}
	return total, nil
}
