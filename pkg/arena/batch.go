package arena

import (
	"fmt"

	"github.com/dxforge/dxmachine/pkg/quantum"
)

// BatchBuilder appends homogeneous fixed-size records to an arena one at a
// time. Arena.WriteBatch needs every record up front behind one closure;
// the builder instead supports incremental construction, e.g. while
// iterating an external collection whose length is only an estimate.
//
// The builder writes the format header immediately and pre-grows the arena
// for the expected total, so pushes within the estimate never reallocate.
type BatchBuilder struct {
	arena      *Arena
	recordSize int
	start      int // offset of the header
	count      int
}

// NewBatchBuilder starts a batch of expected records of recordSize bytes
// each on a. The arena must not be written through other paths until
// Finish is called.
func NewBatchBuilder(a *Arena, recordSize, expected int, flags byte) (*BatchBuilder, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("record size must be positive, got %d", recordSize)
	}
	if expected < 0 {
		expected = 0
	}
	start := a.Offset()
	a.Grow(quantum.HeaderSize + recordSize*expected)
	a.WriteHeader(flags)
	return &BatchBuilder{arena: a, recordSize: recordSize, start: start}, nil
}

// Push appends one record: its region is zero-filled, then f writes the
// record through a writer rooted at the region's start. A failed f leaves
// the batch as it was before the call.
func (b *BatchBuilder) Push(f func(w *quantum.Writer) error) error {
	region := b.arena.AllocBytes(b.recordSize)
	clear(region)
	if err := f(quantum.NewWriter(region)); err != nil {
		b.arena.off -= b.recordSize
		return err
	}
	b.count++
	return nil
}

// Count returns the number of records pushed so far.
func (b *BatchBuilder) Count() int { return b.count }

// Size returns the serialized size so far, header included.
func (b *BatchBuilder) Size() int {
	return quantum.HeaderSize + b.count*b.recordSize
}

// Finish returns the serialized batch: the header plus every pushed
// record. The view aliases the arena.
func (b *BatchBuilder) Finish() []byte {
	return b.arena.buf[b.start : b.start+b.Size()]
}
