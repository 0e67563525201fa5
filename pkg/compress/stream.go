package compress

import "io"

// DefaultChunkSize is the chunk granularity for streaming compression.
const DefaultChunkSize = 64 * 1024

// StreamCompressor buffers writes into fixed-size chunks and compresses
// each chunk independently as it fills. Chunking bounds memory for inputs
// larger than RAM comfort and lets a reader skip at chunk granularity.
type StreamCompressor struct {
	codec     Codec
	chunkSize int
	chunks    []*Compressed
	buf       []byte
}

// NewStreamCompressor creates a streaming compressor with the given chunk
// size (DefaultChunkSize if non-positive).
func NewStreamCompressor(c Codec, chunkSize int) *StreamCompressor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &StreamCompressor{
		codec:     c,
		chunkSize: chunkSize,
		buf:       make([]byte, 0, chunkSize),
	}
}

// Write appends data to the stream, flushing full chunks as they fill.
// Implements io.Writer; the returned error comes from the codec.
func (s *StreamCompressor) Write(data []byte) (int, error) {
	written := 0
	for len(data) > 0 {
		space := s.chunkSize - len(s.buf)
		take := len(data)
		if take > space {
			take = space
		}
		s.buf = append(s.buf, data[:take]...)
		data = data[take:]
		written += take
		if len(s.buf) >= s.chunkSize {
			if err := s.flushChunk(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (s *StreamCompressor) flushChunk() error {
	if len(s.buf) == 0 {
		return nil
	}
	chunk, err := Compress(s.codec, s.buf)
	if err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunk)
	s.buf = s.buf[:0]
	return nil
}

// Finish flushes the trailing partial chunk and returns every chunk in
// order. The compressor must not be written to afterwards.
func (s *StreamCompressor) Finish() ([]*Compressed, error) {
	if err := s.flushChunk(); err != nil {
		return nil, err
	}
	return s.chunks, nil
}

// ChunkCount returns the number of completed chunks.
func (s *StreamCompressor) ChunkCount() int { return len(s.chunks) }

// TotalCompressedSize returns the compressed bytes produced so far plus
// the uncompressed bytes still buffered.
func (s *StreamCompressor) TotalCompressedSize() int {
	total := len(s.buf)
	for _, c := range s.chunks {
		total += c.CompressedSize()
	}
	return total
}

// StreamDecompressor reads a chunk sequence back in order, decompressing
// each chunk lazily with the same caching as Compressed.
type StreamDecompressor struct {
	chunks []*Compressed
	chunk  int
	offset int
}

// NewStreamDecompressor wraps chunks for sequential reading.
func NewStreamDecompressor(chunks []*Compressed) *StreamDecompressor {
	return &StreamDecompressor{chunks: chunks}
}

// Read copies decompressed bytes into buf, crossing chunk boundaries as
// needed. Implements io.Reader: it returns io.EOF once every chunk is
// exhausted.
func (s *StreamDecompressor) Read(buf []byte) (int, error) {
	if s.chunk >= len(s.chunks) {
		return 0, io.EOF
	}
	written := 0
	for written < len(buf) && s.chunk < len(s.chunks) {
		data, err := s.chunks[s.chunk].Decompress()
		if err != nil {
			return written, err
		}
		n := copy(buf[written:], data[s.offset:])
		written += n
		s.offset += n
		if s.offset >= len(data) {
			s.chunk++
			s.offset = 0
		}
	}
	return written, nil
}

// DecompressAll concatenates every chunk's decompressed bytes, populating
// each chunk's cache along the way.
func (s *StreamDecompressor) DecompressAll() ([]byte, error) {
	total := 0
	for _, c := range s.chunks {
		total += c.OriginalSize()
	}
	out := make([]byte, 0, total)
	for _, c := range s.chunks {
		data, err := c.Decompress()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}
