// Package quantum implements the zero-copy record format: fixed byte
// offsets computed from a schema, a trusted reader/writer kernel over those
// offsets, and a safety-checked cursor for buffers of unknown provenance.
//
// # Buffer Layout
//
// Every buffer produced by this package has the shape:
//
//	[Header(4)][Fixed Region(FixedSize)][Slot Table(SlotCount*16)][Heap]
//
// Header:
//   - offset 0: magic (2 bytes, little-endian, 0x5A44)
//   - offset 2: version (1 byte)
//   - offset 3: flags (1 byte; bit0 set = little-endian payload)
//
// The fixed region packs primitive fields back to back in schema order with
// no padding. Multi-byte values are stored little-endian and always read
// through the endian-aware Reader, never by native-alignment casts, so the
// packed layout is safe on every architecture.
//
// The slot table holds one 16-byte descriptor per variable-length field:
//
//	[offset u32, relative to heap start][length u32][8 reserved bytes]
//
// A zero-length descriptor means the slot is unset. The heap begins at
//
//	HeapOffset = 4 + FixedSize + SlotCount*16
//
// and any buffer shorter than HeapOffset is invalid for its schema.
//
// # Three Ways to Read
//
// Reader and Writer are the trusted kernel: minimal fixed-offset accessors
// with no bounds rechecking, for use after the buffer has been validated
// once (Layout.CheckBuffer does this for an entire buffer in one pass).
//
// Deserializer is the safe cursor: every read is bounds- and
// alignment-checked before any reinterpretation, making it the entry point
// for untrusted input or layouts not known statically.
//
// Layout is the compiled form of a Schema: per-field offsets and slot
// indices plus bound accessors that close over them. Field order is part of
// the schema's identity; reordering fields is a breaking format change.
package quantum
