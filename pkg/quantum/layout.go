package quantum

import (
	"errors"
	"fmt"

	"github.com/dxforge/dxmachine/pkg/safety"
)

// Kind enumerates the field types a schema may contain.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindBytes
)

var kindNames = map[Kind]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindU16:    "u16",
	KindU32:    "u32",
	KindU64:    "u64",
	KindI8:     "i8",
	KindI16:    "i16",
	KindI32:    "i32",
	KindI64:    "i64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindString: "string",
	KindBytes:  "bytes",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// FixedWidth returns the packed byte width of a fixed-width kind, or 0 for
// variable-length kinds.
func (k Kind) FixedWidth() int {
	switch k {
	case KindBool, KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	default:
		return 0
	}
}

// Variable reports whether the kind is stored through a slot descriptor.
func (k Kind) Variable() bool {
	return k == KindString || k == KindBytes
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Field is one named, typed schema entry.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered field list. Order is significant: it determines
// offsets and slot indices and is therefore part of the format identity.
type Schema []Field

var (
	// ErrUnknownField is returned by Layout.Accessor for a name the schema
	// does not contain.
	ErrUnknownField = errors.New("unknown field")

	errEmptyFieldName = errors.New("empty field name")
	errDuplicateField = errors.New("duplicate field name")
)

// FieldLayout is the compiled placement of one field. Fixed-width fields
// have an absolute byte Offset into the buffer and Slot == -1; variable
// fields have a Slot index and Offset == -1.
type FieldLayout struct {
	Name   string
	Kind   Kind
	Offset int
	Slot   int
}

// Layout is the compiled form of a Schema. It is computed once per record
// type and immutable afterwards; at runtime it contributes nothing but the
// constants it holds and the accessors bound to them.
type Layout struct {
	fields    []FieldLayout
	byName    map[string]int
	fixedSize int
	slotCount int
}

// Compile walks the schema in declaration order, assigning each fixed-width
// field the next packed offset in the fixed region and each variable field
// the next slot index.
func Compile(s Schema) (*Layout, error) {
	l := &Layout{
		fields: make([]FieldLayout, 0, len(s)),
		byName: make(map[string]int, len(s)),
	}
	fixedOff := HeaderSize
	for _, f := range s {
		if f.Name == "" {
			return nil, errEmptyFieldName
		}
		if !f.Kind.valid() {
			return nil, fmt.Errorf("field %q: invalid kind %v", f.Name, f.Kind)
		}
		if _, dup := l.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", errDuplicateField, f.Name)
		}
		fl := FieldLayout{Name: f.Name, Kind: f.Kind, Offset: -1, Slot: -1}
		if w := f.Kind.FixedWidth(); w > 0 {
			fl.Offset = fixedOff
			fixedOff += w
		} else {
			fl.Slot = l.slotCount
			l.slotCount++
		}
		l.byName[f.Name] = len(l.fields)
		l.fields = append(l.fields, fl)
	}
	l.fixedSize = fixedOff - HeaderSize
	return l, nil
}

// MustCompile is Compile for schemas defined as literals in code, where a
// failure is a build bug.
func MustCompile(s Schema) *Layout {
	l, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return l
}

// FixedSize returns the total byte width of the fixed region.
func (l *Layout) FixedSize() int { return l.fixedSize }

// SlotCount returns the number of variable-length fields.
func (l *Layout) SlotCount() int { return l.slotCount }

// HeapOffset returns the byte offset where variable payloads begin.
func (l *Layout) HeapOffset() int {
	return HeaderSize + l.fixedSize + l.slotCount*SlotSize
}

// MinSize returns the smallest valid buffer length for this layout; equal
// to HeapOffset (a buffer with an empty heap).
func (l *Layout) MinSize() int { return l.HeapOffset() }

// SlotOffset returns the absolute byte offset of slot's descriptor.
func (l *Layout) SlotOffset(slot int) int {
	return HeaderSize + l.fixedSize + slot*SlotSize
}

// Fields returns the compiled fields in declaration order. The returned
// slice must not be modified.
func (l *Layout) Fields() []FieldLayout { return l.fields }

// Field looks up one field's placement by name.
func (l *Layout) Field(name string) (FieldLayout, bool) {
	i, ok := l.byName[name]
	if !ok {
		return FieldLayout{}, false
	}
	return l.fields[i], true
}

// CheckBuffer validates buf against this layout — header magic and
// version, minimum size, and every slot descriptor's bounds — and returns
// a trusted Reader on success. This is the single up-front check that the
// Reader kernel relies on.
func (l *Layout) CheckBuffer(buf []byte) (*Reader, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := safety.CheckBounds(0, l.MinSize(), len(buf)); err != nil {
		return nil, fmt.Errorf("buffer below layout minimum: %w", err)
	}
	r := NewReader(buf)
	heapOff := l.HeapOffset()
	for slot := 0; slot < l.slotCount; slot++ {
		offset, length := r.Slot(l.SlotOffset(slot))
		if err := safety.CheckBounds(heapOff+int(offset), int(length), len(buf)); err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot, err)
		}
	}
	return r, nil
}

// Accessor returns a reader/writer accessor bound to the named field's
// compiled placement.
func (l *Layout) Accessor(name string) (Accessor, error) {
	f, ok := l.Field(name)
	if !ok {
		return Accessor{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return Accessor{layout: l, field: f}, nil
}

// MustAccessor is Accessor for fields known at build time.
func (l *Layout) MustAccessor(name string) Accessor {
	a, err := l.Accessor(name)
	if err != nil {
		panic(err)
	}
	return a
}

// Accessor reads and writes one field through its compiled offset or slot.
// Using a typed method on a field of a different kind is a programmer
// error and panics; malformed buffers never reach an Accessor because the
// Reader was produced by CheckBuffer.
type Accessor struct {
	layout *Layout
	field  FieldLayout
}

// Name returns the field name.
func (a Accessor) Name() string { return a.field.Name }

// Kind returns the field kind.
func (a Accessor) Kind() Kind { return a.field.Kind }

func (a Accessor) requireKind(k Kind) {
	if a.field.Kind != k {
		panic(fmt.Sprintf("quantum: accessor for %s field %q used as %s", a.field.Kind, a.field.Name, k))
	}
}

func (a Accessor) slotOffset() int { return a.layout.SlotOffset(a.field.Slot) }

func (a Accessor) Bool(r *Reader) bool       { a.requireKind(KindBool); return r.Bool(a.field.Offset) }
func (a Accessor) Uint8(r *Reader) uint8     { a.requireKind(KindU8); return r.U8(a.field.Offset) }
func (a Accessor) Uint16(r *Reader) uint16   { a.requireKind(KindU16); return r.U16(a.field.Offset) }
func (a Accessor) Uint32(r *Reader) uint32   { a.requireKind(KindU32); return r.U32(a.field.Offset) }
func (a Accessor) Uint64(r *Reader) uint64   { a.requireKind(KindU64); return r.U64(a.field.Offset) }
func (a Accessor) Int8(r *Reader) int8       { a.requireKind(KindI8); return r.I8(a.field.Offset) }
func (a Accessor) Int16(r *Reader) int16     { a.requireKind(KindI16); return r.I16(a.field.Offset) }
func (a Accessor) Int32(r *Reader) int32     { a.requireKind(KindI32); return r.I32(a.field.Offset) }
func (a Accessor) Int64(r *Reader) int64     { a.requireKind(KindI64); return r.I64(a.field.Offset) }
func (a Accessor) Float32(r *Reader) float32 { a.requireKind(KindF32); return r.F32(a.field.Offset) }
func (a Accessor) Float64(r *Reader) float64 { a.requireKind(KindF64); return r.F64(a.field.Offset) }

// String returns the field's heap payload as a borrowed string; false means
// the slot is unset.
func (a Accessor) String(r *Reader) (string, bool) {
	a.requireKind(KindString)
	return r.HeapString(a.slotOffset(), a.layout.HeapOffset())
}

// Bytes returns the field's heap payload as a borrowed view, or nil if the
// slot is unset.
func (a Accessor) Bytes(r *Reader) []byte {
	a.requireKind(KindBytes)
	return r.HeapBytes(a.slotOffset(), a.layout.HeapOffset())
}

func (a Accessor) PutBool(w *Writer, v bool)       { a.requireKind(KindBool); w.PutBool(a.field.Offset, v) }
func (a Accessor) PutUint8(w *Writer, v uint8)     { a.requireKind(KindU8); w.PutU8(a.field.Offset, v) }
func (a Accessor) PutUint16(w *Writer, v uint16)   { a.requireKind(KindU16); w.PutU16(a.field.Offset, v) }
func (a Accessor) PutUint32(w *Writer, v uint32)   { a.requireKind(KindU32); w.PutU32(a.field.Offset, v) }
func (a Accessor) PutUint64(w *Writer, v uint64)   { a.requireKind(KindU64); w.PutU64(a.field.Offset, v) }
func (a Accessor) PutInt8(w *Writer, v int8)       { a.requireKind(KindI8); w.PutI8(a.field.Offset, v) }
func (a Accessor) PutInt16(w *Writer, v int16)     { a.requireKind(KindI16); w.PutI16(a.field.Offset, v) }
func (a Accessor) PutInt32(w *Writer, v int32)     { a.requireKind(KindI32); w.PutI32(a.field.Offset, v) }
func (a Accessor) PutInt64(w *Writer, v int64)     { a.requireKind(KindI64); w.PutI64(a.field.Offset, v) }
func (a Accessor) PutFloat32(w *Writer, v float32) { a.requireKind(KindF32); w.PutF32(a.field.Offset, v) }
func (a Accessor) PutFloat64(w *Writer, v float64) { a.requireKind(KindF64); w.PutF64(a.field.Offset, v) }
