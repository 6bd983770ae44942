// pool.go provides pooled scratch buffers for hot encoding paths such as
// trie node hashing, where every visited node is re-encoded. Buffers are
// recycled through sync.Pool to reduce GC pressure.
package rlp

import (
	"sync"
	"sync/atomic"
)

const (
	// defaultBufSize is the initial capacity for pooled buffers.
	defaultBufSize = 1024

	// maxBufSize caps the retained buffer size so oversized buffers are
	// released to the GC instead of pinned in the pool.
	maxBufSize = 1 << 20 // 1 MiB
)

// PoolMetrics tracks buffer pool usage for monitoring.
type PoolMetrics struct {
	// Gets counts buffer checkouts.
	Gets atomic.Int64
	// Allocs counts checkouts that had to allocate a fresh buffer.
	Allocs atomic.Int64
	// Discards counts oversized buffers dropped instead of recycled.
	Discards atomic.Int64
}

// PoolMetricsSnapshot is a frozen copy of PoolMetrics values.
type PoolMetricsSnapshot struct {
	Gets     int64
	Allocs   int64
	Discards int64
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *PoolMetrics) Snapshot() PoolMetricsSnapshot {
	return PoolMetricsSnapshot{
		Gets:     m.Gets.Load(),
		Allocs:   m.Allocs.Load(),
		Discards: m.Discards.Load(),
	}
}

// BufferPool manages reusable encoding buffers. All methods are safe for
// concurrent use.
type BufferPool struct {
	pool    sync.Pool
	metrics PoolMetrics
}

// NewBufferPool creates a pool with default buffer sizing.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{}
	bp.pool.New = func() interface{} {
		bp.metrics.Allocs.Add(1)
		buf := make([]byte, 0, defaultBufSize)
		return &buf
	}
	return bp
}

// Get checks out an empty buffer with retained capacity.
func (bp *BufferPool) Get() []byte {
	bp.metrics.Gets.Add(1)
	buf := bp.pool.Get().(*[]byte)
	return (*buf)[:0]
}

// Put returns a buffer to the pool. Oversized buffers are discarded.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) > maxBufSize {
		bp.metrics.Discards.Add(1)
		return
	}
	buf = buf[:0]
	bp.pool.Put(&buf)
}

// Metrics returns the pool's usage counters.
func (bp *BufferPool) Metrics() *PoolMetrics {
	return &bp.metrics
}
