package strings

import "testing"

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)
	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	if BytesToString(nil) != "" {
		t.Errorf("expected empty string for nil input")
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)
	if string(b) != s {
		t.Errorf("expected %q, got %q", s, string(b))
	}

	if StringToBytes("") != nil {
		t.Errorf("expected nil for empty string")
	}
}

func TestClone(t *testing.T) {
	original := []byte("mutable")
	aliased := BytesToString(original)
	cloned := Clone(aliased)

	original[0] = 'M'
	if cloned != "mutable" {
		t.Errorf("clone should not observe mutation of source bytes, got %q", cloned)
	}
	if aliased != "Mutable" {
		t.Errorf("aliased string should observe mutation of source bytes, got %q", aliased)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(8)
	b.WriteString("foo")
	b.WriteByte('-')
	b.WriteBytes([]byte("bar"))

	if got := b.String(); got != "foo-bar" {
		t.Errorf("expected 'foo-bar', got %q", got)
	}
	if b.Len() != 7 {
		t.Errorf("expected length 7, got %d", b.Len())
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", b.Len())
	}
}

func TestSprintf(t *testing.T) {
	if got := Sprintf("no args"); got != "no args" {
		t.Errorf("expected passthrough with no args, got %q", got)
	}

	got := Sprintf("%s: %d", "widgets", 42)
	if got != "widgets: 42" {
		t.Errorf("expected 'widgets: 42', got %q", got)
	}
}

func TestGetPutBuilder(t *testing.T) {
	for _, size := range []BuilderSize{Small, Medium, Large} {
		b := GetBuilder(size)
		b.WriteString("x")
		PutBuilder(b, size)
	}
}
