package compress

import (
	"errors"
	"fmt"
)

// ErrInvalidData indicates codec-level corruption detected before or
// outside the codec itself (e.g. a declared size that cannot be right).
var ErrInvalidData = errors.New("invalid compressed data")

// ErrUnknownCodec is returned by ByName for an unregistered codec name.
var ErrUnknownCodec = errors.New("unknown codec")

// DecompressionError wraps a codec's failure to decode. The compressed
// buffer is assumed corrupt; retrying cannot help because decompression is
// deterministic.
type DecompressionError struct {
	Codec string
	Cause error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%s decompression failed: %v", e.Codec, e.Cause)
}

func (e *DecompressionError) Unwrap() error { return e.Cause }

// Codec is a pluggable block compressor.
//
// Decompress receives the caller's expectation of the decoded length so it
// can size its output buffer up front; it must fail (not truncate or pad)
// if the actual decoded length differs.
type Codec interface {
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte, expectedLen int) ([]byte, error)
}

// ByName resolves a registered codec.
func ByName(name string) (Codec, error) {
	switch name {
	case "s2":
		return S2{}, nil
	case "zstd":
		return NewZstd()
	case "snappy":
		return Snappy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Default returns the codec used when none is configured.
func Default() Codec { return S2{} }

// Names lists the registered codec names.
func Names() []string { return []string{"s2", "zstd", "snappy"} }
