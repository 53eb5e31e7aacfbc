// Package pool provides typed object pools for the parser's scratch state.
// The tokenizer draws segment buffers from it; the logging middleware draws
// request records and line buffers.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a generic, type-safe wrapper around sync.Pool.
type Pool[T any] struct {
	pool    sync.Pool
	reset   func(*T) // called on every Get before handing the object out
	maxSize int64    // 0 = unlimited
	count   atomic.Int64
}

// NewPool creates a pool backed by factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	p := &Pool[T]{}
	p.pool.New = func() any { return factory() }
	return p
}

// NewPoolWithReset creates a pool that resets objects before reuse.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get returns a pooled object or a new one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.maxSize > 0 {
		p.count.Add(-1)
	}
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put hands obj back. Objects beyond the size limit are dropped.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.maxSize > 0 {
		if p.count.Load() >= p.maxSize {
			return
		}
		p.count.Add(1)
	}
	p.pool.Put(obj)
}

// SetMaxSize caps the number of idle objects tracked by the pool. It must
// be called before the pool is shared.
func (p *Pool[T]) SetMaxSize(size int) { p.maxSize = int64(size) }

// Stats returns the approximate idle count and the size limit.
func (p *Pool[T]) Stats() (count int64, maxSize int) {
	return max(p.count.Load(), 0), int(p.maxSize)
}

// BufferPool hands out byte buffers bucketed by capacity.
type BufferPool struct {
	buckets []int
	pools   []*Pool[[]byte]
}

// NewBufferPool creates buckets from 64 bytes up to 4 KiB.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{buckets: []int{64, 256, 1024, 4096}}
	for _, size := range bp.buckets {
		capacity := size
		bp.pools = append(bp.pools, NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, capacity)
				return &buf
			},
			func(buf *[]byte) { *buf = (*buf)[:0] },
		))
	}
	return bp
}

// Get returns an empty buffer with at least minCap capacity. Requests above
// the largest bucket are allocated directly.
func (bp *BufferPool) Get(minCap int) *[]byte {
	if i := bp.bucket(minCap); i >= 0 {
		return bp.pools[i].Get()
	}
	buf := make([]byte, 0, minCap)
	return &buf
}

// Put returns buf to the bucket matching its capacity.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	c := cap(*buf)
	for i := len(bp.buckets) - 1; i >= 0; i-- {
		if c >= bp.buckets[i] {
			if c <= bp.buckets[len(bp.buckets)-1] {
				bp.pools[i].Put(buf)
			}
			return
		}
	}
}

func (bp *BufferPool) bucket(minCap int) int {
	for i, size := range bp.buckets {
		if size >= minCap {
			return i
		}
	}
	return -1
}
