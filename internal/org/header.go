package org

import (
	"regexp"
	"strings"
	"unicode"
)

// Marker is the character repeated at the start of a heading line.
type Marker byte

const (
	MarkdownMarker Marker = '#'
	OrgMarker      Marker = '*'
)

// Todo is the keyword in front of a heading title. The zero value means the
// heading has none.
type Todo string

const (
	TodoNone Todo = ""
	TodoTodo Todo = "TODO"
	TodoDone Todo = "DONE"
)

// Header is a parsed heading line together with the planning line and
// property drawer that follow it.
type Header struct {
	Line       int
	Depth      int
	Content    string
	Tags       []string
	Properties map[string]string
	Todo       Todo
	Priority   Priority
	DateTime   *DateTime
}

// HasTag reports whether the tag is set on this heading.
func (h *Header) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasProperty reports whether the drawer holds key with exactly value.
func (h *Header) HasProperty(key, value string) bool {
	v, ok := h.Properties[key]
	return ok && v == value
}

var (
	markdownPrefixRegex = regexp.MustCompile(`^(#+) `)
	orgPrefixRegex      = regexp.MustCompile(`^(\*+) `)
	priorityRegex       = regexp.MustCompile(`^\[#([\p{L}\p{N}]+)\]`)
	tagBlockRegex       = regexp.MustCompile(`(?:^|\s):((?:[\p{L}\p{N}]+:)+)\s*$`)
	propertyRegex       = regexp.MustCompile(`^:([^:]+):\s*(.*)$`)
)

func (m Marker) prefix() *regexp.Regexp {
	if m == OrgMarker {
		return orgPrefixRegex
	}
	return markdownPrefixRegex
}

// ParseHeaderLine recognizes line as a heading. When it is one, the planning
// line and property drawer right after it are consumed from cur.
func ParseHeaderLine(cur *Cursor, line Line, marker Marker) (*Header, bool) {
	h, ok := parseHeading(line.Text, marker)
	if !ok {
		return nil, false
	}
	h.Line = line.Number

	if cur != nil {
		h.DateTime = parsePlanning(cur)
		h.Properties = parseDrawer(cur)
	}
	if h.Properties == nil {
		h.Properties = map[string]string{}
	}
	return h, true
}

func parseHeading(text string, marker Marker) (*Header, bool) {
	m := marker.prefix().FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	h := &Header{Depth: len(m[1])}
	rest := strings.TrimLeft(text[len(m[0]):], " \t")

	if word, after, ok := todoKeyword(rest); ok {
		h.Todo = Todo(word)
		rest = strings.TrimLeft(after, " \t")
	}

	if pm := priorityRegex.FindStringSubmatch(rest); pm != nil {
		h.Priority = Priority(pm[1])
		rest = strings.TrimLeft(rest[len(pm[0]):], " \t")
	}

	if loc := tagBlockRegex.FindStringSubmatchIndex(rest); loc != nil {
		h.Tags = ParseTags(rest[loc[2]:loc[3]])
		rest = rest[:loc[0]]
	}

	h.Content = strings.TrimSpace(rest)
	return h, true
}

// todoKeyword splits off a leading all-uppercase word followed by a space.
func todoKeyword(s string) (string, string, bool) {
	end := 0
	for i, r := range s {
		if !unicode.IsUpper(r) {
			end = i
			break
		}
		end = i + len(string(r))
	}
	if end == 0 || end >= len(s) || s[end] != ' ' {
		return "", s, false
	}
	return s[:end], s[end+1:], true
}

// ParseTags splits a colon-delimited tag block such as ":work:home:". Empty
// segments are dropped.
func ParseTags(block string) []string {
	var tags []string
	for _, tag := range strings.Split(block, ":") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ParseProperty parses a ":KEY: value" drawer line.
func ParseProperty(line string) (string, string, error) {
	m := propertyRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", &ParseError{Input: line, Reason: "malformed property"}
	}
	return m[1], strings.TrimSpace(m[2]), nil
}

func parsePlanning(cur *Cursor) *DateTime {
	next, ok := cur.Peek()
	if !ok || !isPlanningLine(next.Text) {
		return nil
	}
	cur.Next()

	dt, err := ParseTimestamp(next.Text)
	if err != nil {
		return nil
	}
	return &dt
}

// parseDrawer collects a :PROPERTIES: block. A missing :END: or a malformed
// line ends the drawer early and keeps what was read so far.
func parseDrawer(cur *Cursor) map[string]string {
	next, ok := cur.Peek()
	if !ok || !hasPrefixFold(next.Text, ":PROPERTIES:") {
		return nil
	}
	cur.Next()

	props := map[string]string{}
	for {
		line, ok := cur.Peek()
		if !ok {
			return props
		}
		if hasPrefixFold(line.Text, ":END:") {
			cur.Next()
			return props
		}

		key, value, err := ParseProperty(line.Text)
		if err != nil {
			return props
		}
		cur.Next()
		props[key] = value
	}
}

func isPlanningLine(text string) bool {
	return hasPrefixFold(text, "DEADLINE:") || hasPrefixFold(text, "SCHEDULED:")
}

func hasPrefixFold(text, prefix string) bool {
	text = strings.TrimLeft(text, " \t")
	return len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix)
}
