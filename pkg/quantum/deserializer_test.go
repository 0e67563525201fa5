package quantum

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/dxforge/dxmachine/pkg/safety"
)

func TestDeserializerSequentialReads(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], 0x1122334455667788)
	binary.LittleEndian.PutUint32(buf[8:], 0xDEADBEEF)
	copy(buf[12:], "text")

	d := NewDeserializer(buf)
	if d.Position() != 0 || d.Remaining() != 16 {
		t.Fatalf("fresh cursor: pos %d remaining %d", d.Position(), d.Remaining())
	}

	v64, err := Read[uint64](d)
	if err != nil {
		t.Fatalf("Read[uint64]: %v", err)
	}
	if *v64 != 0x1122334455667788 {
		t.Errorf("u64 = %#x", *v64)
	}

	v32, err := Read[uint32](d)
	if err != nil {
		t.Fatalf("Read[uint32]: %v", err)
	}
	if *v32 != 0xDEADBEEF {
		t.Errorf("u32 = %#x", *v32)
	}

	s, err := d.ReadString(4)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if s != "text" {
		t.Errorf("string = %q", s)
	}
	if d.Remaining() != 0 {
		t.Errorf("remaining = %d", d.Remaining())
	}
}

func TestDeserializerReturnsViews(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	d := NewDeserializer(buf)
	b, err := d.ReadBytes(4)
	if err != nil {
		t.Fatal(err)
	}
	buf[0] = 99
	if b[0] != 99 {
		t.Error("ReadBytes should alias the buffer, not copy")
	}
}

func TestDeserializerFailedReadKeepsPosition(t *testing.T) {
	buf := make([]byte, 6)
	d := NewDeserializer(buf)
	if err := d.Skip(4); err != nil {
		t.Fatal(err)
	}

	if _, err := Read[uint64](d); !safety.IsBufferTooSmall(err) {
		t.Fatalf("expected too-small error, got %v", err)
	}
	if d.Position() != 4 {
		t.Errorf("failed read moved position to %d", d.Position())
	}

	if _, err := d.ReadBytes(10); err == nil {
		t.Fatal("ReadBytes past end should fail")
	}
	if d.Position() != 4 {
		t.Errorf("failed ReadBytes moved position to %d", d.Position())
	}
}

func TestDeserializerMisalignedRead(t *testing.T) {
	// Heap buffers are at least 8-byte aligned, so base+1 cannot satisfy
	// a uint32 cast.
	buf := make([]byte, 16)
	d := NewDeserializer(buf)
	if err := d.Skip(1); err != nil {
		t.Fatal(err)
	}

	_, err := Read[uint32](d)
	var mis *safety.MisalignedError
	if !errors.As(err, &mis) {
		t.Fatalf("expected MisalignedError, got %v", err)
	}
	if d.Position() != 1 {
		t.Errorf("failed read moved position to %d", d.Position())
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf, 7)
	d := NewDeserializer(buf)

	for i := 0; i < 3; i++ {
		v, err := Peek[uint32](d)
		if err != nil {
			t.Fatal(err)
		}
		if *v != 7 {
			t.Errorf("peek %d = %d", i, *v)
		}
	}
	if d.Position() != 0 {
		t.Errorf("Peek advanced to %d", d.Position())
	}
}

func TestReadSlice(t *testing.T) {
	buf := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(i*100))
	}
	d := NewDeserializer(buf)

	s, err := ReadSlice[uint64](d, 4)
	if err != nil {
		t.Fatalf("ReadSlice: %v", err)
	}
	for i, v := range s {
		if v != uint64(i*100) {
			t.Errorf("s[%d] = %d", i, v)
		}
	}
	if d.Remaining() != 0 {
		t.Errorf("remaining = %d", d.Remaining())
	}
}

func TestReadSliceEdgeCases(t *testing.T) {
	buf := make([]byte, 8)
	d := NewDeserializer(buf)

	s, err := ReadSlice[uint64](d, 0)
	if err != nil || len(s) != 0 {
		t.Errorf("zero-count ReadSlice = (%v, %v)", s, err)
	}

	if _, err := ReadSlice[uint64](d, 2); !safety.IsBufferTooSmall(err) {
		t.Errorf("oversized ReadSlice: got %v", err)
	}
	if _, err := ReadSlice[uint64](d, -1); !errors.Is(err, safety.ErrOverflow) {
		t.Errorf("negative count: got %v", err)
	}
	// 2^62 elements of 8 bytes overflows the size computation.
	if _, err := ReadSlice[uint64](d, 1<<62); !errors.Is(err, safety.ErrOverflow) {
		t.Errorf("overflowing count: got %v", err)
	}
	if d.Position() != 0 {
		t.Errorf("failed reads moved position to %d", d.Position())
	}
}

func TestReadStringRejectsInvalidUTF8(t *testing.T) {
	d := NewDeserializer([]byte{0xFF, 0xFE, 'o', 'k'})
	if _, err := d.ReadString(2); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if d.Position() != 0 {
		t.Errorf("failed ReadString moved position to %d", d.Position())
	}

	// The same bytes are fine as raw bytes.
	b, err := d.ReadBytes(2)
	if err != nil || !bytes.Equal(b, []byte{0xFF, 0xFE}) {
		t.Errorf("ReadBytes = (%v, %v)", b, err)
	}
}

func TestSeekAndHasRemaining(t *testing.T) {
	d := NewDeserializer(make([]byte, 10))
	if err := d.Seek(10); err != nil {
		t.Errorf("Seek to end: %v", err)
	}
	if err := d.Seek(11); err == nil {
		t.Error("Seek past end should fail")
	}
	if err := d.Seek(3); err != nil {
		t.Fatal(err)
	}
	if !d.HasRemaining(7) || d.HasRemaining(8) || d.HasRemaining(-1) {
		t.Error("HasRemaining boundary conditions wrong")
	}
}

func FuzzDeserializer(f *testing.F) {
	f.Add([]byte{}, 0)
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 0)
	f.Add([]byte("hello world"), 3)
	f.Add(bytes.Repeat([]byte{0xFF}, 64), 9)

	f.Fuzz(func(t *testing.T, data []byte, skip int) {
		d := NewDeserializer(data)
		if err := d.Skip(skip); err != nil {
			return
		}
		// No read may panic or move the cursor past the buffer,
		// whatever the input.
		if v, err := Read[uint64](d); err == nil && v == nil {
			t.Fatal("successful Read returned nil")
		}
		if _, err := d.ReadString(4); err != nil && d.Position() > len(data) {
			t.Fatal("position past buffer after failed ReadString")
		}
		_, _ = ReadSlice[uint32](d, 3)
		_, _ = Peek[int16](d)
		if d.Position() > len(data) {
			t.Fatalf("position %d past buffer length %d", d.Position(), len(data))
		}
	})
}
