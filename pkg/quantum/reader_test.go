package quantum

import (
	"bytes"
	"math"
	"testing"
)

func TestReaderWriterRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)

	w.PutU8(0, 0xAB)
	w.PutU16(1, 0xCDEF)
	w.PutU32(3, 0xDEADBEEF)
	w.PutU64(7, 0x0123456789ABCDEF)
	w.PutI8(15, -5)
	w.PutI16(16, -1000)
	w.PutI32(18, -100000)
	w.PutI64(22, -10000000000)
	w.PutF32(30, 3.14)
	w.PutF64(34, math.Pi)
	w.PutBool(42, true)
	w.PutBool(43, false)

	r := NewReader(buf)
	if got := r.U8(0); got != 0xAB {
		t.Errorf("U8 = %#x", got)
	}
	if got := r.U16(1); got != 0xCDEF {
		t.Errorf("U16 = %#x", got)
	}
	if got := r.U32(3); got != 0xDEADBEEF {
		t.Errorf("U32 = %#x", got)
	}
	if got := r.U64(7); got != 0x0123456789ABCDEF {
		t.Errorf("U64 = %#x", got)
	}
	if got := r.I8(15); got != -5 {
		t.Errorf("I8 = %d", got)
	}
	if got := r.I16(16); got != -1000 {
		t.Errorf("I16 = %d", got)
	}
	if got := r.I32(18); got != -100000 {
		t.Errorf("I32 = %d", got)
	}
	if got := r.I64(22); got != -10000000000 {
		t.Errorf("I64 = %d", got)
	}
	if got := r.F32(30); got != float32(3.14) {
		t.Errorf("F32 = %v", got)
	}
	if got := r.F64(34); got != math.Pi {
		t.Errorf("F64 = %v", got)
	}
	if !r.Bool(42) || r.Bool(43) {
		t.Error("Bool round trip failed")
	}
}

func TestValuesArePackedUnaligned(t *testing.T) {
	// A u64 written at offset 1 must occupy bytes [1,9): the fixed region
	// packs with no padding.
	buf := make([]byte, 16)
	w := NewWriter(buf)
	w.PutU64(1, 0x1122334455667788)

	want := []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}
	if !bytes.Equal(buf[1:9], want) {
		t.Errorf("bytes at [1,9) = %x, want %x", buf[1:9], want)
	}
	if buf[0] != 0 || buf[9] != 0 {
		t.Error("write spilled outside its packed range")
	}
}

func TestSlotRoundTrip(t *testing.T) {
	buf := make([]byte, 2*SlotSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	w := NewWriter(buf)
	w.PutSlot(0, 7, 42)

	r := NewReader(buf)
	offset, length := r.Slot(0)
	if offset != 7 || length != 42 {
		t.Errorf("Slot = (%d, %d), want (7, 42)", offset, length)
	}
	for i := 8; i < SlotSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("reserved byte %d not zeroed", i)
		}
	}
	// The neighboring descriptor is untouched.
	if buf[SlotSize] != 0xFF {
		t.Error("PutSlot wrote past its descriptor")
	}
}

func TestHeapAccess(t *testing.T) {
	// One slot at offset 0, heap right after it.
	heapOff := SlotSize
	payload := []byte("hello")
	buf := make([]byte, heapOff+len(payload))
	w := NewWriter(buf)
	w.PutBytes(heapOff, payload)
	w.PutSlot(0, 0, uint32(len(payload)))

	r := NewReader(buf)
	if got := r.HeapBytes(0, heapOff); !bytes.Equal(got, payload) {
		t.Errorf("HeapBytes = %q", got)
	}
	s, ok := r.HeapString(0, heapOff)
	if !ok || s != "hello" {
		t.Errorf("HeapString = (%q, %v)", s, ok)
	}
}

func TestHeapUnsetSlot(t *testing.T) {
	buf := make([]byte, SlotSize)
	r := NewReader(buf)
	if got := r.HeapBytes(0, SlotSize); got != nil {
		t.Errorf("unset slot HeapBytes = %v, want nil", got)
	}
	if s, ok := r.HeapString(0, SlotSize); ok || s != "" {
		t.Errorf("unset slot HeapString = (%q, %v), want empty/false", s, ok)
	}
}
