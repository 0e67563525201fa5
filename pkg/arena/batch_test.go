package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxforge/dxmachine/pkg/quantum"
)

func TestBatchBuilderIncremental(t *testing.T) {
	a := New(256)
	b, err := NewBatchBuilder(a, 16, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, quantum.HeaderSize, b.Size())

	ids := []uint64{10, 20, 30}
	for _, id := range ids {
		id := id
		require.NoError(t, b.Push(func(w *quantum.Writer) error {
			w.PutU64(0, id)
			w.PutU64(8, id*2)
			return nil
		}))
	}
	assert.Equal(t, 3, b.Count())
	assert.Equal(t, quantum.HeaderSize+3*16, b.Size())

	out := b.Finish()
	require.Len(t, out, b.Size())

	h, err := quantum.ParseHeader(out)
	require.NoError(t, err)
	require.NoError(t, h.Validate())

	r := quantum.NewReader(out)
	for i, id := range ids {
		base := quantum.HeaderSize + i*16
		assert.Equal(t, id, r.U64(base))
		assert.Equal(t, id*2, r.U64(base+8))
	}
}

func TestBatchBuilderExceedsEstimate(t *testing.T) {
	a := New(32)
	b, err := NewBatchBuilder(a, 8, 1, 0)
	require.NoError(t, err)

	// Push well past the expected count; the arena grows underneath.
	for i := 0; i < 20; i++ {
		v := uint64(i)
		require.NoError(t, b.Push(func(w *quantum.Writer) error {
			w.PutU64(0, v)
			return nil
		}))
	}
	out := b.Finish()
	require.Len(t, out, quantum.HeaderSize+20*8)

	r := quantum.NewReader(out)
	for i := 0; i < 20; i++ {
		assert.Equal(t, uint64(i), r.U64(quantum.HeaderSize+i*8))
	}
}

func TestBatchBuilderPushRollsBack(t *testing.T) {
	a := New(128)
	b, err := NewBatchBuilder(a, 8, 2, 0)
	require.NoError(t, err)

	require.NoError(t, b.Push(func(w *quantum.Writer) error {
		w.PutU64(0, 1)
		return nil
	}))
	offBefore := a.Offset()

	pushErr := b.Push(func(w *quantum.Writer) error {
		w.PutU64(0, 999)
		return assert.AnError
	})
	assert.ErrorIs(t, pushErr, assert.AnError)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, offBefore, a.Offset())
	assert.Equal(t, quantum.HeaderSize+8, b.Size())
}

func TestBatchBuilderZeroFillsRecords(t *testing.T) {
	a := New(64)
	a.AllocCopy([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	a.Reset()

	b, err := NewBatchBuilder(a, 8, 1, 0)
	require.NoError(t, err)
	require.NoError(t, b.Push(func(w *quantum.Writer) error { return nil }))

	out := b.Finish()
	for i := quantum.HeaderSize; i < len(out); i++ {
		assert.Zero(t, out[i], "stale byte at %d", i)
	}
}

func TestBatchBuilderRejectsBadRecordSize(t *testing.T) {
	a := New(64)
	_, err := NewBatchBuilder(a, 0, 1, 0)
	assert.Error(t, err)
	_, err = NewBatchBuilder(a, -8, 1, 0)
	assert.Error(t, err)

	// A negative estimate is clamped, not rejected.
	b, err := NewBatchBuilder(a, 8, -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Count())
}
