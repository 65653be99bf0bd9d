package rope

import "sync"

// BufferPool recycles gap buffer backing arrays.
// It keeps one sync.Pool per capacity, so a buffer always gets back storage
// of exactly the size it asked for.
//
// Usage note: the pool is optional. It's primarily beneficial when a tree
// splits and merges leaves at a high rate, each split allocating a fresh
// fixed-capacity buffer.
type BufferPool struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// DefaultPool is the pool gap buffers draw from.
// It can be replaced with a custom pool if needed.
var DefaultPool = NewBufferPool()

// NewBufferPool creates a new buffer pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{pools: make(map[int]*sync.Pool)}
}

// poolFor returns the pool for the given capacity, creating it on first use.
func (p *BufferPool) poolFor(capacity int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[capacity]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				b := make([]byte, capacity)
				return &b
			},
		}
		p.pools[capacity] = pool
	}
	return pool
}

// Get retrieves a backing array of exactly capacity bytes.
// The contents are unspecified.
func (p *BufferPool) Get(capacity int) []byte {
	b := p.poolFor(capacity).Get().(*[]byte)
	return (*b)[:capacity:capacity]
}

// Put returns a backing array to the pool. The array must not be used after
// calling this method, and no slice over it may still be alive.
func (p *BufferPool) Put(b []byte) {
	if cap(b) == 0 {
		return
	}
	b = b[:cap(b)]
	p.poolFor(len(b)).Put(&b)
}
