package org

import (
	"errors"
	"strings"
	"testing"
)

func TestCursorPeekDoesNotConsume(t *testing.T) {
	cur := NewCursor(strings.NewReader("one\ntwo\nthree"))

	first, ok := cur.Next()
	if !ok || first.Text != "one" || first.Number != 1 {
		t.Fatalf("unexpected first line %+v", first)
	}

	peeked, ok := cur.Peek()
	if !ok || peeked.Text != "two" {
		t.Fatalf("unexpected peek %+v", peeked)
	}
	again, _ := cur.Peek()
	if again != peeked {
		t.Fatalf("expected repeated peek to return the same line, got %+v", again)
	}

	second, _ := cur.Next()
	if second != peeked {
		t.Fatalf("expected Next to return the held line, got %+v", second)
	}

	third, _ := cur.Next()
	if third.Text != "three" || third.Number != 3 {
		t.Fatalf("unexpected third line %+v", third)
	}

	if _, ok := cur.Next(); ok {
		t.Fatalf("expected end of input")
	}
	if _, ok := cur.Peek(); ok {
		t.Fatalf("expected peek at end of input to fail")
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestCursorReportsReadErrors(t *testing.T) {
	cur := NewCursor(failingReader{})
	if _, ok := cur.Next(); ok {
		t.Fatalf("expected no lines from a failing reader")
	}
	if cur.Err() == nil {
		t.Fatalf("expected read error to be reported")
	}
}

func TestCursorCutsOverlongLines(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+10)
	cur := NewCursor(strings.NewReader("before\n" + long + "\nafter\n"))

	var lines []Line
	for {
		line, ok := cur.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if len(lines[1].Text) != maxLineSize {
		t.Fatalf("expected long line cut to %d bytes, got %d", maxLineSize, len(lines[1].Text))
	}
	if lines[2].Text != "after" || lines[2].Number != 3 {
		t.Fatalf("unexpected line after the long one %+v", lines[2])
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	if got := string(truncate([]byte("aé"), 2)); got != "a" {
		t.Fatalf("truncate() = %q, want %q", got, "a")
	}
	if got := string(truncate([]byte("abc"), 5)); got != "abc" {
		t.Fatalf("truncate() = %q, want %q", got, "abc")
	}
}
