// Package pool provides generic object pooling for the columnar writer.
// It offers zero-allocation memory management with automatic object
// recycling, reducing garbage collection pressure on the write path where
// every record touches several byte buffers (bit-packing scratch space,
// RLE runs, page payloads).
//
// Example usage:
//
//	myPool := pool.New(
//	    func() *bytes.Buffer { return new(bytes.Buffer) },
//	    func(b *bytes.Buffer) { b.Reset() },
//	)
//	buf := myPool.Get()
//	defer myPool.Put(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a generic, type-safe object pool wrapping sync.Pool with
// allocation/hit/miss statistics. Safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
	}
}

// New creates a typed pool with a factory and an optional reset function.
// reset is called before an object is returned to the pool.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, allocating a new one if empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool, running the reset function first.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats reports allocation count, objects currently in use, and hit count.
func (p *Pool[T]) Stats() (allocated, inUse, hits int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits)
}

// BufferPool buckets []byte buffers by power-of-two size classes, matching
// the range of scratch buffers the write path needs: bit-packed groups
// (bytes), RLE runs (tens of bytes), and full pages (up to pageSize).
type BufferPool struct {
	pools []*Pool[[]byte]
	sizes []int
}

// NewBufferPool creates a buffer pool with size buckets from 512B to 16MB.
// Requests larger than the largest bucket allocate directly, unpooled.
func NewBufferPool() *BufferPool {
	sizes := []int{512, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

	pools := make([]*Pool[[]byte], len(sizes))
	for i, size := range sizes {
		size := size
		pools[i] = New(
			func() []byte { return make([]byte, size) },
			func(b []byte) {},
		)
	}

	return &BufferPool{pools: pools, sizes: sizes}
}

// Get returns a buffer of at least the requested length, sliced to that
// length; its capacity may be larger.
func (p *BufferPool) Get(size int) []byte {
	for i, s := range p.sizes {
		if s >= size {
			return p.pools[i].Get()[:size]
		}
	}
	return make([]byte, size)
}

// Put returns a buffer to its size-class pool. Buffers whose capacity does
// not match a known class are dropped for the GC to reclaim.
func (p *BufferPool) Put(buf []byte) {
	size := cap(buf)
	for i, s := range p.sizes {
		if s == size {
			p.pools[i].Put(buf[:size])
			return
		}
	}
}

// Pages is the process-wide buffer pool for page-sized scratch buffers.
// cmd/parquetwrite borrows its NDJSON line buffer from it; PageWriter and
// the encoders allocate their own buffers and do not use it.
var Pages = NewBufferPool()
