package compress

import (
	"encoding/binary"

	"github.com/dxforge/dxmachine/pkg/safety"
)

// Compressed pairs a codec's output with the original size and a lazy
// decompression cache. The first Decompress populates the cache; later
// calls return it unchanged until ClearCache. A populated cache always
// holds exactly OriginalSize bytes.
type Compressed struct {
	codec        Codec
	data         []byte
	originalSize uint32
	cache        []byte
}

// Compress runs the codec over data and wraps the result. The cache starts
// empty.
func Compress(c Codec, data []byte) (*Compressed, error) {
	out, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	return &Compressed{
		codec:        c,
		data:         out,
		originalSize: uint32(len(data)),
	}, nil
}

// FromCompressed wraps bytes that were compressed elsewhere.
func FromCompressed(c Codec, compressed []byte, originalSize uint32) *Compressed {
	return &Compressed{codec: c, data: compressed, originalSize: originalSize}
}

// CompressedSize returns the codec output length.
func (c *Compressed) CompressedSize() int { return len(c.data) }

// OriginalSize returns the uncompressed length.
func (c *Compressed) OriginalSize() int { return int(c.originalSize) }

// AsCompressed returns the raw codec output.
func (c *Compressed) AsCompressed() []byte { return c.data }

// Codec returns the codec this payload was compressed with.
func (c *Compressed) Codec() Codec { return c.codec }

// Ratio returns compressed/original; 1.0 for empty input.
func (c *Compressed) Ratio() float64 {
	if c.originalSize == 0 {
		return 1.0
	}
	return float64(len(c.data)) / float64(c.originalSize)
}

// Savings returns 1 - Ratio.
func (c *Compressed) Savings() float64 { return 1.0 - c.Ratio() }

// Decompress returns the original bytes, decoding on first call and
// caching the result. The returned slice is the cache itself; callers must
// not modify it.
func (c *Compressed) Decompress() ([]byte, error) {
	if c.cache == nil {
		data, err := c.codec.Decompress(c.data, int(c.originalSize))
		if err != nil {
			return nil, err
		}
		c.cache = data
	}
	return c.cache, nil
}

// DecompressOwned always re-runs the codec and returns a fresh copy,
// leaving the cache untouched. Use it when the caller wants ownership
// without pinning a cache on this value.
func (c *Compressed) DecompressOwned() ([]byte, error) {
	return c.codec.Decompress(c.data, int(c.originalSize))
}

// IsCached reports whether Decompress has populated the cache.
func (c *Compressed) IsCached() bool { return c.cache != nil }

// ClearCache drops the decompressed cache.
func (c *Compressed) ClearCache() { c.cache = nil }

// ToWire frames the payload as [original size u32 LE][compressed bytes].
func (c *Compressed) ToWire() []byte {
	out := make([]byte, 4+len(c.data))
	binary.LittleEndian.PutUint32(out, c.originalSize)
	copy(out[4:], c.data)
	return out
}

// FromWire parses a ToWire frame. Inputs shorter than the 4-byte size
// prefix fail with a BufferTooSmallError.
func FromWire(c Codec, data []byte) (*Compressed, error) {
	if err := safety.CheckBounds(0, 4, len(data)); err != nil {
		return nil, err
	}
	originalSize := binary.LittleEndian.Uint32(data)
	compressed := make([]byte, len(data)-4)
	copy(compressed, data[4:])
	return &Compressed{codec: c, data: compressed, originalSize: originalSize}, nil
}
