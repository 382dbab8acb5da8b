// Package stream writes collections to HTTP responses in chunks. Items come
// from a fetcher (usually rows already read with ReadRows), pass through a
// transformer and are framed by an Encoder (a JSON array or CSV text) into pooled buffers
// that are flushed whenever they grow past the chunk threshold.
//
// Usage:
//
//	streamer := stream.NewStreamer[common.Ticket](stream.DefaultChunkConfig(), stream.JSONArray())
//	items, err := stream.ReadRows(ctx, rows, scanner)
//	resp := streamer.Stream(ctx, stream.SliceFetcher(items), stream.PassThroughTransformer[common.Ticket]())
//	sendStream(resp)
package stream

import (
	"context"
	"devdesk/middleware"
)

// DataFetcher sends items on the data channel and at most one error on the
// error channel. It MUST close both channels when done and should stop early
// when ctx is cancelled.
type DataFetcher[T any] func(ctx context.Context) (<-chan T, <-chan error)

// Transformer converts a fetched item into the value handed to the Encoder.
// Errors stop the stream.
type Transformer[T any] func(item T) (interface{}, error)

// Streamer streams items of type T. Implementations are safe for concurrent
// use; each Stream call runs in its own goroutine.
type Streamer[T any] interface {
	// Stream starts producing chunks and returns immediately. The response
	// is compatible with the middleware sendStream closure.
	Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse

	// GetConfig returns the effective configuration.
	GetConfig() ChunkConfig
}

// Encoder frames streamed items.
type Encoder interface {
	// ContentType is sent as the response Content-Type.
	ContentType() string
	// Begin appends whatever precedes the first item.
	Begin(buf []byte) []byte
	// Item appends one item; index is its zero-based position.
	Item(buf []byte, item interface{}, index int) ([]byte, error)
	// End appends whatever follows the last item.
	End(buf []byte) []byte
}

// ChunkConfig tunes chunking. Zero values are replaced by defaults.
type ChunkConfig struct {
	// ChunkThreshold is the buffered size in bytes after which a chunk is
	// flushed to the client. Default 32KB.
	ChunkThreshold int

	// BufferSize is the initial capacity of pooled buffers. Default 50KB.
	BufferSize int

	// ChannelBuffer is the capacity of the chunk channel. Default 4.
	ChannelBuffer int
}

// DefaultChunkConfig returns the default streaming configuration.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkThreshold: 32 * 1024,
		BufferSize:     50 * 1024,
		ChannelBuffer:  4,
	}
}

// Validate applies defaults for zero or negative values.
func (c *ChunkConfig) Validate() error {
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = 32 * 1024
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 50 * 1024
	}
	if c.ChannelBuffer <= 0 {
		c.ChannelBuffer = 4
	}
	return nil
}

// BufferPool manages reusable byte buffers.
type BufferPool interface {
	// Get returns a zero-length buffer with at least the initial capacity.
	Get() *[]byte
	// Put returns a buffer to the pool. nil is a no-op.
	Put(buf *[]byte)
	// GetInitialSize returns the initial capacity of new buffers.
	GetInitialSize() int
}
