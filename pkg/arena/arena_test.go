package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxforge/dxmachine/pkg/quantum"
)

func TestArenaAllocMonotonic(t *testing.T) {
	a := New(128)

	first := a.AllocBytes(10)
	assert.Len(t, first, 10)
	assert.Equal(t, 10, a.Offset())

	second := a.AllocBytes(20)
	assert.Len(t, second, 20)
	assert.Equal(t, 30, a.Offset())
	assert.Equal(t, a.Offset(), a.Len())
}

func TestArenaDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-5).Cap())
	assert.Equal(t, 256, New(256).Cap())
}

func TestArenaGrowPreservesContents(t *testing.T) {
	a := New(16)
	a.AllocCopy([]byte("0123456789abcdef"))
	require.Equal(t, 16, a.Offset())

	// The next write exceeds capacity and forces a reallocation.
	a.AllocCopy([]byte("XYZ"))
	assert.GreaterOrEqual(t, a.Cap(), 19)
	assert.Equal(t, []byte("0123456789abcdefXYZ"), a.Bytes())
}

func TestArenaGrowDoubles(t *testing.T) {
	a := New(16)
	a.AllocBytes(17)
	assert.Equal(t, 32, a.Cap())

	// A request beyond double jumps straight to the required size.
	b := New(16)
	b.AllocBytes(100)
	assert.Equal(t, 100, b.Cap())
}

func TestArenaResetIsCheapAndReusable(t *testing.T) {
	a := New(64)
	a.AllocCopy([]byte("payload"))
	capBefore := a.Cap()

	a.Reset()
	assert.Equal(t, 0, a.Offset())
	assert.Equal(t, capBefore, a.Cap())
	assert.Empty(t, a.Bytes())

	a.AllocCopy([]byte("again"))
	assert.Equal(t, []byte("again"), a.Bytes())
}

func TestArenaShrinkToInitial(t *testing.T) {
	a := New(32)
	a.AllocBytes(1000)
	require.GreaterOrEqual(t, a.Cap(), 1000)

	a.ShrinkToInitial()
	assert.Equal(t, 32, a.Cap())
	assert.Equal(t, 32, a.Offset(), "cursor clamps to the shrunk capacity")

	// Shrinking an arena already at its initial capacity is a no-op.
	b := New(32)
	b.AllocBytes(8)
	b.ShrinkToInitial()
	assert.Equal(t, 32, b.Cap())
	assert.Equal(t, 8, b.Offset())
}

func TestArenaTakeBytes(t *testing.T) {
	a := New(64)
	a.AllocCopy([]byte("detached"))

	out := a.TakeBytes()
	assert.Equal(t, []byte("detached"), out)
	assert.Equal(t, 0, a.Offset())
	assert.Equal(t, 64, a.Cap())

	// New writes must not alias the detached slice.
	a.AllocCopy([]byte("XXXXXXXX"))
	assert.Equal(t, []byte("detached"), out)
}

func TestAllocTypedAlignment(t *testing.T) {
	a := New(64)
	a.AllocBytes(1) // odd cursor

	p := Alloc[uint64](a)
	require.NotNil(t, p)
	*p = 0xDEADBEEFCAFEBABE
	assert.Equal(t, uint64(0xDEADBEEFCAFEBABE), *p)

	// The pad plus the value fit between the old and new cursor.
	assert.GreaterOrEqual(t, a.Offset(), 1+8)
	assert.LessOrEqual(t, a.Offset(), 1+7+8)
}

func TestWriteHeaderAndWriter(t *testing.T) {
	a := New(64)
	a.WriteHeader(0)
	require.Equal(t, quantum.HeaderSize, a.Offset())

	h, err := quantum.ParseHeader(a.Bytes())
	require.NoError(t, err)
	assert.NoError(t, h.Validate())
	assert.True(t, h.LittleEndian())

	w := a.Writer()
	w.PutU32(0, 77)
	a.Advance(4)
	assert.Equal(t, quantum.HeaderSize+4, a.Offset())

	r := quantum.NewReader(a.Bytes())
	assert.Equal(t, uint32(77), r.U32(quantum.HeaderSize))
}

func TestWriteBatch(t *testing.T) {
	a := New(256)
	a.WriteHeader(0)

	// Three 16-byte records with a u64 id at offset 0 and a u64 value at 8.
	ids := []uint64{10, 20, 30}
	start, err := a.WriteBatch(16, 3, func(w *quantum.Writer, i int) error {
		w.PutU64(0, ids[i])
		w.PutU64(8, ids[i]*2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, quantum.HeaderSize, start)
	assert.Equal(t, quantum.HeaderSize+3*16, a.Offset())

	r := quantum.NewReader(a.Bytes())
	for i, id := range ids {
		base := start + i*16
		assert.Equal(t, id, r.U64(base))
		assert.Equal(t, id*2, r.U64(base+8))
	}
}

func TestWriteBatchZeroFillsStaleBytes(t *testing.T) {
	a := New(64)
	a.AllocCopy([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	a.Reset()

	start, err := a.WriteBatch(8, 1, func(w *quantum.Writer, i int) error {
		return nil // leave the record untouched
	})
	require.NoError(t, err)
	for _, b := range a.Bytes()[start : start+8] {
		assert.Zero(t, b, "stale arena bytes must not leak into records")
	}
}

func TestWriteBatchRollsBackOnError(t *testing.T) {
	a := New(256)
	errBoom := assert.AnError

	before := a.Offset()
	_, err := a.WriteBatch(16, 3, func(w *quantum.Writer, i int) error {
		if i == 1 {
			return errBoom
		}
		return nil
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, a.Offset(), "failed batch must not consume arena space")
}
