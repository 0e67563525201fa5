package quantum

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Reader is the trusted read kernel: fixed-offset, little-endian accessors
// over a byte slice with no bounds rechecking of their own.
//
// Offsets come from a compiled Layout, which guarantees they are valid for
// any buffer of at least Layout.MinSize() bytes. Callers must establish the
// length once before constructing a Reader — typically via
// Layout.CheckBuffer when accepting a buffer from outside the process. An
// out-of-range offset is a programmer error and panics via the slice bounds
// check; it is never a recoverable condition.
type Reader struct {
	data []byte
}

// NewReader wraps data without validating it. See Layout.CheckBuffer for
// the validating constructor.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Bytes returns the underlying byte slice.
func (r *Reader) Bytes() []byte { return r.data }

// Len returns the buffer length.
func (r *Reader) Len() int { return len(r.data) }

func (r *Reader) U8(off int) uint8   { return r.data[off] }
func (r *Reader) U16(off int) uint16 { return binary.LittleEndian.Uint16(r.data[off:]) }
func (r *Reader) U32(off int) uint32 { return binary.LittleEndian.Uint32(r.data[off:]) }
func (r *Reader) U64(off int) uint64 { return binary.LittleEndian.Uint64(r.data[off:]) }

func (r *Reader) I8(off int) int8   { return int8(r.data[off]) }
func (r *Reader) I16(off int) int16 { return int16(r.U16(off)) }
func (r *Reader) I32(off int) int32 { return int32(r.U32(off)) }
func (r *Reader) I64(off int) int64 { return int64(r.U64(off)) }

func (r *Reader) F32(off int) float32 { return math.Float32frombits(r.U32(off)) }
func (r *Reader) F64(off int) float64 { return math.Float64frombits(r.U64(off)) }

func (r *Reader) Bool(off int) bool { return r.data[off] != 0 }

// Slot decodes the descriptor at slot-table offset slotOff and returns the
// payload's heap-relative offset and length.
func (r *Reader) Slot(slotOff int) (offset, length uint32) {
	offset = binary.LittleEndian.Uint32(r.data[slotOff:])
	length = binary.LittleEndian.Uint32(r.data[slotOff+4:])
	return offset, length
}

// HeapBytes resolves the slot descriptor at slotOff against the heap region
// starting at heapOff and returns a view of the payload, or nil if the slot
// is unset (zero length). The view aliases the buffer; it is valid only
// while the buffer is not mutated.
func (r *Reader) HeapBytes(slotOff, heapOff int) []byte {
	offset, length := r.Slot(slotOff)
	if length == 0 {
		return nil
	}
	start := heapOff + int(offset)
	return r.data[start : start+int(length)]
}

// HeapString is HeapBytes for string fields. The second return is false for
// an unset slot. The string aliases the buffer without copying.
func (r *Reader) HeapString(slotOff, heapOff int) (string, bool) {
	b := r.HeapBytes(slotOff, heapOff)
	if b == nil {
		return "", false
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), true
}
