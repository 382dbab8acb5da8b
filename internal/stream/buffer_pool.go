package stream

import "sync"

// bufferPool implements BufferPool on top of sync.Pool. Buffers may grow
// past the initial size and keep their grown capacity when returned.
type bufferPool struct {
	pool        *sync.Pool
	initialSize int
}

// NewBufferPool creates a pool whose new buffers have initialSize capacity.
// Non-positive sizes fall back to 50KB.
func NewBufferPool(initialSize int) BufferPool {
	if initialSize <= 0 {
		initialSize = 50 * 1024
	}

	return &bufferPool{
		initialSize: initialSize,
		pool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, 0, initialSize)
				return &buf
			},
		},
	}
}

// Get returns a buffer with len 0. Contents beyond len are undefined.
func (p *bufferPool) Get() *[]byte {
	buf := p.pool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// Put hands buf back to the pool. It must not be used afterwards.
func (p *bufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}

func (p *bufferPool) GetInitialSize() int {
	return p.initialSize
}
