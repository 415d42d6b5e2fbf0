package org

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// maxLineSize caps the bytes kept per line. Longer lines are cut short and
// the rest of the line is dropped.
const maxLineSize = 1024 * 1024

// Line is one line of a document with its 1-based line number.
type Line struct {
	Number int
	Text   string
}

// Cursor reads a document line by line and can hold back a single line for
// lookahead.
type Cursor struct {
	reader  *bufio.Reader
	number  int
	held    *Line
	err     error
}

func NewCursor(r io.Reader) *Cursor {
	return &Cursor{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line, consuming it.
func (c *Cursor) Next() (Line, bool) {
	if c.held != nil {
		line := *c.held
		c.held = nil
		return line, true
	}
	return c.read()
}

// Peek returns the next line without consuming it.
func (c *Cursor) Peek() (Line, bool) {
	if c.held != nil {
		return *c.held, true
	}
	line, ok := c.read()
	if !ok {
		return Line{}, false
	}
	c.held = &line
	return line, true
}

// Err returns the first read error, if any.
func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) read() (Line, bool) {
	if c.err != nil {
		return Line{}, false
	}

	var text []byte
	for {
		chunk, isPrefix, err := c.reader.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.err = err
			}
			return Line{}, false
		}
		if len(text) < maxLineSize {
			text = append(text, chunk...)
		}
		if !isPrefix {
			break
		}
	}

	c.number++
	return Line{Number: c.number, Text: string(truncate(text, maxLineSize))}, true
}

// truncate cuts b to at most n bytes without splitting a rune.
func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}
