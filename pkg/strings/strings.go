// Package strings provides zero-copy string utilities used by error
// formatting in pkg/errors and by the pooled builders in pkg/compression.
package strings

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// WARNING: the returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

// StringToBytes converts a string to a byte slice without allocation.
// WARNING: the returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s))
	bh := reflect.SliceHeader{
		Data: sh.Data,
		Len:  sh.Len,
		Cap:  sh.Len,
	}
	return *(*[]byte)(unsafe.Pointer(&bh))
}

// Clone copies a string so the caller owns the backing memory, breaking
// any aliasing introduced by BytesToString.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, StringToBytes(s))
	return BytesToString(b)
}

// Builder is a byte-buffer-backed string builder with zero-copy String().
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

func (b *Builder) WriteString(s string) { b.buf = append(b.buf, StringToBytes(s)...) }
func (b *Builder) WriteBytes(p []byte)  { b.buf = append(b.buf, p...) }
func (b *Builder) WriteByte(c byte)     { b.buf = append(b.buf, c) }

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *Builder) String() string { return BytesToString(b.buf) }
func (b *Builder) Bytes() []byte  { return b.buf }
func (b *Builder) Len() int       { return len(b.buf) }
func (b *Builder) Reset()         { b.buf = b.buf[:0] }

// BuilderSize buckets pooled builders by expected payload size.
type BuilderSize int

const (
	Small  BuilderSize = iota // < 1KB
	Medium                    // 1KB - 16KB
	Large                     // 16KB+
)

var (
	smallBuilderPool = &sync.Pool{New: func() interface{} { return NewBuilder(256) }}
	mediumBuilderPool = &sync.Pool{New: func() interface{} { return NewBuilder(4 * 1024) }}
	largeBuilderPool  = &sync.Pool{New: func() interface{} { return NewBuilder(64 * 1024) }}
)

// GetBuilder retrieves a pooled builder of the requested size class.
func GetBuilder(size BuilderSize) *Builder {
	pool := builderPool(size)
	builder := pool.Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to its size-class pool.
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	builder.Reset()
	builderPool(size).Put(builder)
}

func builderPool(size BuilderSize) *sync.Pool {
	switch size {
	case Medium:
		return mediumBuilderPool
	case Large:
		return largeBuilderPool
	default:
		return smallBuilderPool
	}
}

// Sprintf is a pooled-builder alternative to fmt.Sprintf, used by
// pkg/errors to keep error-path formatting allocation-light.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	estimatedSize := len(format) + len(args)*16
	size := Small
	switch {
	case estimatedSize > 16*1024:
		size = Large
	case estimatedSize > 1024:
		size = Medium
	}

	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	fmt.Fprintf(builder, format, args...)
	return Clone(builder.String())
}
