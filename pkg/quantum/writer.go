package quantum

import (
	"encoding/binary"
	"math"
)

// Writer is the trusted write kernel, the mutable counterpart of Reader.
// The same contract applies: offsets come from a compiled Layout and the
// caller has already sized the buffer; an out-of-range offset panics.
type Writer struct {
	data []byte
}

// NewWriter wraps data for structured writes.
func NewWriter(data []byte) *Writer {
	return &Writer{data: data}
}

// Bytes returns the underlying byte slice.
func (w *Writer) Bytes() []byte { return w.data }

// Len returns the buffer length.
func (w *Writer) Len() int { return len(w.data) }

func (w *Writer) PutU8(off int, v uint8)   { w.data[off] = v }
func (w *Writer) PutU16(off int, v uint16) { binary.LittleEndian.PutUint16(w.data[off:], v) }
func (w *Writer) PutU32(off int, v uint32) { binary.LittleEndian.PutUint32(w.data[off:], v) }
func (w *Writer) PutU64(off int, v uint64) { binary.LittleEndian.PutUint64(w.data[off:], v) }

func (w *Writer) PutI8(off int, v int8)   { w.data[off] = byte(v) }
func (w *Writer) PutI16(off int, v int16) { w.PutU16(off, uint16(v)) }
func (w *Writer) PutI32(off int, v int32) { w.PutU32(off, uint32(v)) }
func (w *Writer) PutI64(off int, v int64) { w.PutU64(off, uint64(v)) }

func (w *Writer) PutF32(off int, v float32) { w.PutU32(off, math.Float32bits(v)) }
func (w *Writer) PutF64(off int, v float64) { w.PutU64(off, math.Float64bits(v)) }

func (w *Writer) PutBool(off int, v bool) {
	if v {
		w.data[off] = 1
	} else {
		w.data[off] = 0
	}
}

// PutBytes copies p into the buffer at off.
func (w *Writer) PutBytes(off int, p []byte) {
	copy(w.data[off:off+len(p)], p)
}

// PutSlot writes the descriptor at slot-table offset slotOff. offset is
// heap-relative. The reserved descriptor bytes are zeroed.
func (w *Writer) PutSlot(slotOff int, offset, length uint32) {
	binary.LittleEndian.PutUint32(w.data[slotOff:], offset)
	binary.LittleEndian.PutUint32(w.data[slotOff+4:], length)
	for i := slotOff + 8; i < slotOff+SlotSize; i++ {
		w.data[i] = 0
	}
}
