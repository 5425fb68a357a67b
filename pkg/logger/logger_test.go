package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestGetReturnsUsableLogger(t *testing.T) {
	l := Get()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Info("smoke test")
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, WriterIDKey, "writer-123")
	ctx = context.WithValue(ctx, RowGroupKey, 4)
	ctx = context.WithValue(ctx, ColumnKey, "events.user.id")

	l := WithContext(ctx)
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Info("row group flushed")
}

func TestWith(t *testing.T) {
	l := With(zap.String("component", "column_store"))
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}
