package arena

import (
	"fmt"

	"github.com/dxforge/dxmachine/pkg/quantum"
)

// RecordBuilder serializes one complete record — header, fixed region,
// slot table, heap — into an arena from typed Set calls against a compiled
// layout.
//
// Unlike the Accessor kernel, setters here return errors instead of
// panicking on unknown names or kind mismatches, because builder input is
// often dynamic (decoded JSON, CLI arguments). Variable-length fields
// should be set at most once: each set appends a fresh heap payload, and
// re-setting strands the previous one.
type RecordBuilder struct {
	arena   *Arena
	layout  *quantum.Layout
	start   int
	heapLen int
}

// NewRecordBuilder reserves and zero-fills the record's fixed portion
// (header through slot table) on a. Until Finish, the arena must only be
// written through this builder.
func NewRecordBuilder(a *Arena, l *quantum.Layout, flags byte) *RecordBuilder {
	start := a.Offset()
	a.Grow(l.MinSize())
	a.WriteHeader(flags)
	body := a.AllocBytes(l.MinSize() - quantum.HeaderSize)
	clear(body)
	return &RecordBuilder{arena: a, layout: l, start: start}
}

// writer is rebuilt per call: heap appends may grow (and move) the arena's
// backing buffer, so a cached view would go stale.
func (rb *RecordBuilder) writer() *quantum.Writer {
	return quantum.NewWriter(rb.arena.buf[rb.start:])
}

func (rb *RecordBuilder) field(name string, kind quantum.Kind) (quantum.FieldLayout, error) {
	f, ok := rb.layout.Field(name)
	if !ok {
		return quantum.FieldLayout{}, fmt.Errorf("%w: %q", quantum.ErrUnknownField, name)
	}
	if f.Kind != kind {
		return quantum.FieldLayout{}, fmt.Errorf("field %q is %s, not %s", name, f.Kind, kind)
	}
	return f, nil
}

func (rb *RecordBuilder) SetBool(name string, v bool) error {
	f, err := rb.field(name, quantum.KindBool)
	if err != nil {
		return err
	}
	rb.writer().PutBool(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetUint8(name string, v uint8) error {
	f, err := rb.field(name, quantum.KindU8)
	if err != nil {
		return err
	}
	rb.writer().PutU8(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetUint16(name string, v uint16) error {
	f, err := rb.field(name, quantum.KindU16)
	if err != nil {
		return err
	}
	rb.writer().PutU16(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetUint32(name string, v uint32) error {
	f, err := rb.field(name, quantum.KindU32)
	if err != nil {
		return err
	}
	rb.writer().PutU32(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetUint64(name string, v uint64) error {
	f, err := rb.field(name, quantum.KindU64)
	if err != nil {
		return err
	}
	rb.writer().PutU64(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetInt8(name string, v int8) error {
	f, err := rb.field(name, quantum.KindI8)
	if err != nil {
		return err
	}
	rb.writer().PutI8(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetInt16(name string, v int16) error {
	f, err := rb.field(name, quantum.KindI16)
	if err != nil {
		return err
	}
	rb.writer().PutI16(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetInt32(name string, v int32) error {
	f, err := rb.field(name, quantum.KindI32)
	if err != nil {
		return err
	}
	rb.writer().PutI32(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetInt64(name string, v int64) error {
	f, err := rb.field(name, quantum.KindI64)
	if err != nil {
		return err
	}
	rb.writer().PutI64(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetFloat32(name string, v float32) error {
	f, err := rb.field(name, quantum.KindF32)
	if err != nil {
		return err
	}
	rb.writer().PutF32(f.Offset, v)
	return nil
}

func (rb *RecordBuilder) SetFloat64(name string, v float64) error {
	f, err := rb.field(name, quantum.KindF64)
	if err != nil {
		return err
	}
	rb.writer().PutF64(f.Offset, v)
	return nil
}

// SetString appends s to the heap and points the field's slot at it. An
// empty string leaves the slot unset (zero length).
func (rb *RecordBuilder) SetString(name string, s string) error {
	f, err := rb.field(name, quantum.KindString)
	if err != nil {
		return err
	}
	rb.putHeap(f.Slot, []byte(s))
	return nil
}

// SetBytes appends p to the heap and points the field's slot at it. Empty
// or nil p leaves the slot unset.
func (rb *RecordBuilder) SetBytes(name string, p []byte) error {
	f, err := rb.field(name, quantum.KindBytes)
	if err != nil {
		return err
	}
	rb.putHeap(f.Slot, p)
	return nil
}

func (rb *RecordBuilder) putHeap(slot int, payload []byte) {
	if len(payload) == 0 {
		return
	}
	heapOff := rb.heapLen
	rb.arena.AllocCopy(payload)
	rb.heapLen += len(payload)
	rb.writer().PutSlot(rb.layout.SlotOffset(slot), uint32(heapOff), uint32(len(payload)))
}

// Set dispatches on the field's compiled kind, coercing common Go dynamic
// types (notably float64 and string from decoded JSON). Unrepresentable
// values fail rather than truncate silently.
func (rb *RecordBuilder) Set(name string, value any) error {
	f, ok := rb.layout.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", quantum.ErrUnknownField, name)
	}
	switch f.Kind {
	case quantum.KindBool:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %q: expected bool, got %T", name, value)
		}
		return rb.SetBool(name, v)
	case quantum.KindString:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q: expected string, got %T", name, value)
		}
		return rb.SetString(name, v)
	case quantum.KindBytes:
		v, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("field %q: expected []byte, got %T", name, value)
		}
		return rb.SetBytes(name, v)
	case quantum.KindF32:
		v, err := toFloat(name, value)
		if err != nil {
			return err
		}
		return rb.SetFloat32(name, float32(v))
	case quantum.KindF64:
		v, err := toFloat(name, value)
		if err != nil {
			return err
		}
		return rb.SetFloat64(name, v)
	case quantum.KindU8, quantum.KindU16, quantum.KindU32, quantum.KindU64:
		v, err := toUint(name, value, f.Kind)
		if err != nil {
			return err
		}
		switch f.Kind {
		case quantum.KindU8:
			return rb.SetUint8(name, uint8(v))
		case quantum.KindU16:
			return rb.SetUint16(name, uint16(v))
		case quantum.KindU32:
			return rb.SetUint32(name, uint32(v))
		default:
			return rb.SetUint64(name, v)
		}
	case quantum.KindI8, quantum.KindI16, quantum.KindI32, quantum.KindI64:
		v, err := toInt(name, value, f.Kind)
		if err != nil {
			return err
		}
		switch f.Kind {
		case quantum.KindI8:
			return rb.SetInt8(name, int8(v))
		case quantum.KindI16:
			return rb.SetInt16(name, int16(v))
		case quantum.KindI32:
			return rb.SetInt32(name, int32(v))
		default:
			return rb.SetInt64(name, v)
		}
	default:
		return fmt.Errorf("field %q: unsupported kind %s", name, f.Kind)
	}
}

func toFloat(name string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("field %q: expected number, got %T", name, value)
	}
}

func toUint(name string, value any, kind quantum.Kind) (uint64, error) {
	var v uint64
	switch n := value.(type) {
	case uint64:
		v = n
	case uint32:
		v = uint64(n)
	case uint16:
		v = uint64(n)
	case uint8:
		v = uint64(n)
	case uint:
		v = uint64(n)
	case int:
		if n < 0 {
			return 0, fmt.Errorf("field %q: negative value %d for %s", name, n, kind)
		}
		v = uint64(n)
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("field %q: negative value %d for %s", name, n, kind)
		}
		v = uint64(n)
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, fmt.Errorf("field %q: value %v not representable as %s", name, n, kind)
		}
		v = uint64(n)
	default:
		return 0, fmt.Errorf("field %q: expected unsigned integer, got %T", name, value)
	}
	var max uint64
	switch kind {
	case quantum.KindU8:
		max = 1<<8 - 1
	case quantum.KindU16:
		max = 1<<16 - 1
	case quantum.KindU32:
		max = 1<<32 - 1
	default:
		max = 1<<64 - 1
	}
	if v > max {
		return 0, fmt.Errorf("field %q: value %d overflows %s", name, v, kind)
	}
	return v, nil
}

func toInt(name string, value any, kind quantum.Kind) (int64, error) {
	var v int64
	switch n := value.(type) {
	case int64:
		v = n
	case int32:
		v = int64(n)
	case int16:
		v = int64(n)
	case int8:
		v = int64(n)
	case int:
		v = int64(n)
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("field %q: value %v not representable as %s", name, n, kind)
		}
		v = int64(n)
	default:
		return 0, fmt.Errorf("field %q: expected integer, got %T", name, value)
	}
	var lo, hi int64
	switch kind {
	case quantum.KindI8:
		lo, hi = -1<<7, 1<<7-1
	case quantum.KindI16:
		lo, hi = -1<<15, 1<<15-1
	case quantum.KindI32:
		lo, hi = -1<<31, 1<<31-1
	default:
		lo, hi = -1<<63, 1<<63-1
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("field %q: value %d overflows %s", name, v, kind)
	}
	return v, nil
}

// Finish returns the serialized record. The view aliases the arena; copy
// it (or use Arena.TakeBytes) if it must outlive the arena's next reset.
func (rb *RecordBuilder) Finish() []byte {
	return rb.arena.buf[rb.start : rb.start+rb.layout.MinSize()+rb.heapLen]
}
