// Package arena provides a reusable, growable byte buffer with a single
// advancing write cursor, used to batch-serialize many records without
// per-record allocation, plus a free-list pool and batch/record builders
// on top of it.
package arena

import (
	"unsafe"

	"github.com/dxforge/dxmachine/pkg/quantum"
)

// DefaultCapacity is the backing-buffer size for arenas created without an
// explicit capacity.
const DefaultCapacity = 64 * 1024

// Arena owns one growable byte buffer and a monotonically advancing write
// cursor. It has exactly one logical writer at a time; share across
// goroutines only through a Pool or external synchronization.
//
// Reset is O(1): it rewinds the cursor without zeroing. Stale bytes beyond
// the cursor are never observable because readers are only ever handed
// views up to the declared offset, and record-granular writers (WriteBatch,
// BatchBuilder) zero-fill their regions before use.
type Arena struct {
	buf        []byte
	off        int
	initialCap int
}

// New creates an arena with the given backing capacity. A non-positive
// capacity selects DefaultCapacity.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Arena{
		buf:        make([]byte, capacity),
		initialCap: capacity,
	}
}

// Offset returns the current write cursor.
func (a *Arena) Offset() int { return a.off }

// Len is an alias for Offset: the number of bytes written.
func (a *Arena) Len() int { return a.off }

// Cap returns the backing buffer capacity.
func (a *Arena) Cap() int { return len(a.buf) }

// Bytes returns a view of everything written so far. The view is
// invalidated by the next growing write and by Reset.
func (a *Arena) Bytes() []byte { return a.buf[:a.off] }

// grow replaces the backing buffer with one of at least required bytes,
// doubling at minimum. Previously written bytes and the cursor are
// preserved.
func (a *Arena) grow(required int) {
	newCap := len(a.buf) * 2
	if newCap < required {
		newCap = required
	}
	next := make([]byte, newCap)
	copy(next, a.buf[:a.off])
	a.buf = next
}

// ensure makes room for n more bytes at the cursor.
func (a *Arena) ensure(n int) {
	if a.off+n > len(a.buf) {
		a.grow(a.off + n)
	}
}

// AllocBytes reserves n bytes at the cursor, growing if needed, and returns
// them for the caller to populate. The contents are whatever the arena last
// held there; callers that need zeroes must clear the slice themselves.
func (a *Arena) AllocBytes(n int) []byte {
	a.ensure(n)
	b := a.buf[a.off : a.off+n]
	a.off += n
	return b
}

// AllocCopy reserves len(data) bytes and copies data into them.
func (a *Arena) AllocCopy(data []byte) []byte {
	dst := a.AllocBytes(len(data))
	copy(dst, data)
	return dst
}

// Alloc reserves space for one T and returns a pointer into the arena for
// the caller to populate. The cursor is padded to T's alignment first,
// since Go code must never hold a misaligned *T; the pad keeps the cursor
// monotonic and costs at most the alignment minus one byte.
func Alloc[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	// Reserve worst-case room first: growth may move the backing array,
	// so the pad must be computed against the final base address.
	a.ensure(size + align - 1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	pad := int((uintptr(align) - (base+uintptr(a.off))%uintptr(align)) % uintptr(align))
	a.off += pad
	p := (*T)(unsafe.Pointer(unsafe.SliceData(a.buf[a.off:])))
	a.off += size
	return p
}

// Writer returns a trusted write kernel rooted at the current cursor,
// spanning the remaining capacity. Pair with Advance when writing
// fixed-size structures without going through AllocBytes.
func (a *Arena) Writer() *quantum.Writer {
	return quantum.NewWriter(a.buf[a.off:])
}

// Advance moves the cursor forward by n bytes after direct writes through
// Writer. Growth is not performed here; the caller sized the writes against
// the remaining capacity (Grow beforehand if unsure).
func (a *Arena) Advance(n int) {
	a.off += n
}

// Grow ensures at least n bytes of remaining capacity without moving the
// cursor.
func (a *Arena) Grow(n int) {
	a.ensure(n)
}

// WriteHeader emits the 4-byte format header at the cursor and advances
// past it.
func (a *Arena) WriteHeader(flags byte) {
	a.ensure(quantum.HeaderSize)
	quantum.PutHeader(a.buf[a.off:], flags)
	a.off += quantum.HeaderSize
}

// WriteBatch zero-fills and writes count contiguous records of recordSize
// bytes each, invoking f once per record with a writer rooted at that
// record's start. It returns the byte offset where the batch begins. This
// is the single-allocation path for serializing N records whose contents
// are known up front.
func (a *Arena) WriteBatch(recordSize, count int, f func(w *quantum.Writer, i int) error) (int, error) {
	start := a.off
	total := recordSize * count
	region := a.AllocBytes(total)
	clear(region)
	for i := 0; i < count; i++ {
		w := quantum.NewWriter(region[i*recordSize : (i+1)*recordSize])
		if err := f(w, i); err != nil {
			a.off = start
			return 0, err
		}
	}
	return start, nil
}

// Reset rewinds the cursor to zero. O(1); the buffer contents are left in
// place and overwritten by later writes.
func (a *Arena) Reset() {
	a.off = 0
}

// ShrinkToInitial truncates the backing buffer back to its initial
// capacity, reclaiming memory after a large one-off batch. The cursor is
// clamped to the new capacity.
func (a *Arena) ShrinkToInitial() {
	if len(a.buf) <= a.initialCap {
		return
	}
	next := make([]byte, a.initialCap)
	if a.off > a.initialCap {
		a.off = a.initialCap
	}
	copy(next, a.buf[:a.off])
	a.buf = next
}

// TakeBytes detaches and returns the written bytes, leaving the arena with
// a fresh backing buffer at its initial capacity. Use this when the output
// must own its memory (e.g. handed to another goroutine) instead of
// aliasing the arena.
func (a *Arena) TakeBytes() []byte {
	out := a.buf[:a.off]
	a.buf = make([]byte, a.initialCap)
	a.off = 0
	return out
}
