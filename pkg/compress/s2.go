package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2 is the default codec: Snappy-compatible framing-free block
// compression with LZ4-class speed.
type S2 struct{}

func (S2) Name() string { return "s2" }

func (S2) Compress(src []byte) ([]byte, error) {
	return s2.Encode(nil, src), nil
}

func (S2) Decompress(src []byte, expectedLen int) ([]byte, error) {
	dst, err := s2.Decode(make([]byte, expectedLen), src)
	if err != nil {
		return nil, &DecompressionError{Codec: "s2", Cause: err}
	}
	if len(dst) != expectedLen {
		return nil, &DecompressionError{
			Codec: "s2",
			Cause: fmt.Errorf("%w: decoded %d bytes, expected %d", ErrInvalidData, len(dst), expectedLen),
		}
	}
	return dst, nil
}
