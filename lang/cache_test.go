package lang

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseCached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const src = "let x = 1 + 2"

	a, err := ParseCached(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseCached error: %v", err)
	}

	b, err := ParseCached(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseCached error: %v", err)
	}

	if a != b {
		t.Error("identical sources did not share a Program")
	}

	c, err := ParseCached(t.Context(), src, WithMaxDepth(64))
	if err != nil {
		t.Fatalf("ParseCached error: %v", err)
	}

	if c == a {
		t.Error("different options shared a Program")
	}

	ClearCache()

	d, err := ParseCached(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseCached error: %v", err)
	}

	if d == a {
		t.Error("ClearCache kept a Program")
	}
}

func TestParseCachedError(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		prog, err := ParseCached(t.Context(), "1 +")
		if !errors.Is(err, ErrNoPrefixRule) {
			t.Fatalf("ParseCached error = %v, want %v", err, ErrNoPrefixRule)
		}

		if prog != nil {
			t.Fatal("ParseCached returned a program with an error")
		}
	}
}

func TestParseReader(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	prog, err := ParseReader(t.Context(), strings.NewReader("let a = 2\na * 21"))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	v, err := Eval(t.Context(), prog)
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	if v != Int(42) {
		t.Errorf("Eval = %s, want 42", v.Inspect())
	}
}

func TestParseReaderError(t *testing.T) {
	_, err := ParseReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("ParseReader error = %v, want %v", err, ErrReadInput)
	}
}
