// Package pool provides object pooling for the columnar write path. Every
// record shredded into leaf columns touches several short-lived byte
// buffers: bit-packed groups, RLE run headers, and full page payloads
// before compression. Pooling these keeps garbage collection pressure flat
// regardless of row-group size.
//
// Architecture
//
// The package builds a generic, type-safe pool on top of sync.Pool, plus a
// size-bucketed BufferPool for []byte scratch space:
//
//   - Pool[T]: generic pool for any type T, with allocation/hit stats
//   - BufferPool: power-of-two-bucketed []byte pool (512B to 16MB)
//   - Pages: the process-wide BufferPool (cmd/parquetwrite's line buffer)
//
// Usage Patterns
//
// Creating a custom pool for a page-writer scratch object:
//
//	type scratch struct {
//		levels []int32
//		values []byte
//	}
//
//	scratchPool := pool.New(
//		func() *scratch {
//			return &scratch{
//				levels: make([]int32, 0, 1024),
//				values: make([]byte, 0, 4096),
//			}
//		},
//		func(s *scratch) {
//			s.levels = s.levels[:0]
//			s.values = s.values[:0]
//		},
//	)
//
//	s := scratchPool.Get()
//	defer scratchPool.Put(s)
//
// Borrowing a page-sized buffer from the shared pool:
//
//	buf := pool.Pages.Get(pageSize)
//	defer pool.Pages.Put(buf)
//
// Performance Guidelines
//
// 1. Always return objects via Put/defer, even on error paths.
// 2. Reset functions must not retain references into the returned object.
// 3. Buffer capacity, not length, determines which BufferPool bucket a
//    buffer returns to; slicing a buffer shorter does not change its class.
package pool
