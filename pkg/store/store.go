// Package store persists serialized buffers as compressed, opaque payloads
// in an embedded pebble database, keyed by KSUID. It consumes the engine
// strictly through the compression wire format: the engine defines the
// bytes, the store just moves them.
package store

import (
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/dxforge/dxmachine/pkg/compress"
	"github.com/dxforge/dxmachine/pkg/metrics"
)

// RecordStore is a pebble-backed store of compressed record buffers.
type RecordStore struct {
	db      *pebble.DB
	codec   compress.Codec
	metrics *metrics.Metrics
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithMetrics attaches a metrics sink; without it, operations are not
// observed.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *RecordStore) { s.metrics = m }
}

// Open opens (creating if necessary) a store at path, compressing payloads
// with codec.
func Open(path string, codec compress.Codec, opts ...Option) (*RecordStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", path, err)
	}
	s := &RecordStore{db: db, codec: codec}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put compresses data and stores the wire frame under a fresh KSUID.
func (s *RecordStore) Put(data []byte) (ksuid.KSUID, error) {
	start := time.Now()
	id := ksuid.New()

	c, err := compress.Compress(s.codec, data)
	if err != nil {
		s.observe("put", false, start)
		return ksuid.Nil, fmt.Errorf("compressing record: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordCompression(s.codec.Name(), c.OriginalSize(), c.CompressedSize())
	}

	if err := s.db.Set(id.Bytes(), c.ToWire(), pebble.NoSync); err != nil {
		s.observe("put", false, start)
		return ksuid.Nil, fmt.Errorf("storing record %s: %w", id, err)
	}
	s.observe("put", true, start)
	return id, nil
}

// Get loads and decompresses the record stored under id.
func (s *RecordStore) Get(id ksuid.KSUID) ([]byte, error) {
	start := time.Now()
	wire, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		s.observe("get", false, start)
		return nil, fmt.Errorf("loading record %s: %w", id, err)
	}
	defer closer.Close()

	c, err := compress.FromWire(s.codec, wire)
	if err != nil {
		s.observe("get", false, start)
		return nil, fmt.Errorf("parsing record %s: %w", id, err)
	}
	data, err := c.DecompressOwned()
	if s.metrics != nil {
		s.metrics.RecordDecompression(s.codec.Name(), err == nil)
	}
	if err != nil {
		s.observe("get", false, start)
		return nil, fmt.Errorf("decompressing record %s: %w", id, err)
	}
	s.observe("get", true, start)
	return data, nil
}

// Delete removes the record stored under id. Deleting an absent id is not
// an error.
func (s *RecordStore) Delete(id ksuid.KSUID) error {
	start := time.Now()
	err := s.db.Delete(id.Bytes(), pebble.NoSync)
	s.observe("delete", err == nil, start)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

func (s *RecordStore) observe(op string, success bool, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(op, success, time.Since(start))
	}
}
