package compress

import (
	"fmt"

	"github.com/golang/snappy"
)

// Snappy is the snappy block-format codec.
type Snappy struct{}

func (Snappy) Name() string { return "snappy" }

func (Snappy) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (Snappy) Decompress(src []byte, expectedLen int) ([]byte, error) {
	dst, err := snappy.Decode(make([]byte, expectedLen), src)
	if err != nil {
		return nil, &DecompressionError{Codec: "snappy", Cause: err}
	}
	if len(dst) != expectedLen {
		return nil, &DecompressionError{
			Codec: "snappy",
			Cause: fmt.Errorf("%w: decoded %d bytes, expected %d", ErrInvalidData, len(dst), expectedLen),
		}
	}
	return dst, nil
}
