package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd trades speed for a better ratio than the default codec. Encoder and
// decoder are created once and reused via EncodeAll/DecodeAll, which are
// safe for concurrent use.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd creates a zstd codec at the default compression level.
func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

func (*Zstd) Name() string { return "zstd" }

func (z *Zstd) Compress(src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, nil), nil
}

func (z *Zstd) Decompress(src []byte, expectedLen int) ([]byte, error) {
	dst, err := z.dec.DecodeAll(src, make([]byte, 0, expectedLen))
	if err != nil {
		return nil, &DecompressionError{Codec: "zstd", Cause: err}
	}
	if len(dst) != expectedLen {
		return nil, &DecompressionError{
			Codec: "zstd",
			Cause: fmt.Errorf("%w: decoded %d bytes, expected %d", ErrInvalidData, len(dst), expectedLen),
		}
	}
	return dst, nil
}
