// Package compress wraps finished buffers (or streams of chunks) with a
// pluggable compression codec, tracking original versus compressed size and
// caching decompressed output lazily.
//
// # Wire Format
//
// A compressed payload is framed as:
//
//	[original size: u32 little-endian][codec-specific compressed bytes]
//
// The prepended size lets a receiver allocate its decompression buffer
// before decoding. FromWire rejects inputs shorter than the 4-byte prefix.
//
// # Codecs
//
// Three codecs are registered:
//
//   - "s2" (default): LZ4-class speed, github.com/klauspost/compress/s2
//   - "zstd": higher ratio, github.com/klauspost/compress/zstd
//   - "snappy": github.com/golang/snappy block format
//
// All satisfy the Codec contract: Compress(src) and
// Decompress(src, expectedLen), failing with a DecompressionError on
// corrupt input. The framing above is codec-independent, so the codec name
// travels out of band (configuration, store metadata).
//
// # Streaming
//
// StreamCompressor buffers writes into fixed-size chunks (64 KiB by
// default) and compresses each chunk independently as it fills;
// StreamDecompressor reads them back in order with the same lazy per-chunk
// caching as Compressed. Chunking bounds memory for large inputs and
// allows chunk-granular skipping, at a small cost in ratio versus
// whole-input compression.
package compress
