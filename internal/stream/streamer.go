package stream

import (
	"context"
	"fmt"
	"net/http"

	"devdesk/middleware"
)

// streamer is the default Streamer. Each Stream call gets its own goroutine;
// the buffer pool is shared and thread-safe.
type streamer[T any] struct {
	config     ChunkConfig
	encoder    Encoder
	bufferPool BufferPool
}

// NewStreamer creates a Streamer that frames items with encoder.
func NewStreamer[T any](config ChunkConfig, encoder Encoder) Streamer[T] {
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}

	return &streamer[T]{
		config:     config,
		encoder:    encoder,
		bufferPool: NewBufferPool(config.BufferSize),
	}
}

// NewDefaultStreamer creates a JSON array streamer with DefaultChunkConfig.
func NewDefaultStreamer[T any]() Streamer[T] {
	return NewStreamer[T](DefaultChunkConfig(), JSONArray())
}

// Stream encodes every fetched item and returns a response whose chunk
// channel is closed when the stream ends. The final chunk always carries
// the encoder's closing bytes; an error chunk ends the stream early.
// Cancelling ctx stops production without sending further chunks.
func (s *streamer[T]) Stream(
	ctx context.Context,
	fetcher DataFetcher[T],
	transformer Transformer[T],
) middleware.StreamResponse {
	chunkChan := make(chan middleware.StreamChunk, s.config.ChannelBuffer)

	emit := func(chunk middleware.StreamChunk) bool {
		select {
		case chunkChan <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(chunkChan)

		buf := s.bufferPool.Get()
		defer func() {
			if buf != nil {
				s.bufferPool.Put(buf)
			}
		}()

		*buf = s.encoder.Begin(*buf)

		dataChan, errChan := fetcher(ctx)
		index := 0

		for {
			select {
			case <-ctx.Done():
				return

			case err, ok := <-errChan:
				if !ok {
					// Fetcher finished; keep reading data until it closes.
					errChan = nil
					continue
				}
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("fetcher error: %w", err)})
					return
				}

			case item, ok := <-dataChan:
				if !ok {
					// An error may still be queued behind the closed data channel.
					if errChan != nil {
						if err, open := <-errChan; open && err != nil {
							emit(middleware.StreamChunk{Error: fmt.Errorf("fetcher error: %w", err)})
							return
						}
					}

					*buf = s.encoder.End(*buf)
					if emit(middleware.StreamChunk{Buf: buf}) {
						buf = nil
					}
					return
				}

				transformed, err := transformer(item)
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("transformer error: %w", err)})
					return
				}

				next, err := s.encoder.Item(*buf, transformed, index)
				if err != nil {
					emit(middleware.StreamChunk{Error: err})
					return
				}
				*buf = next
				index++

				if len(*buf) > s.config.ChunkThreshold {
					if !emit(middleware.StreamChunk{Buf: buf}) {
						return
					}
					buf = s.bufferPool.Get()
				}
			}
		}
	}()

	return middleware.StreamResponse{
		TotalCount:  -1,
		ChunkChan:   chunkChan,
		Code:        http.StatusOK,
		ContentType: s.encoder.ContentType(),
		Recycle:     s.bufferPool.Put,
	}
}

func (s *streamer[T]) GetConfig() ChunkConfig {
	return s.config
}
