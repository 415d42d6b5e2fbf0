package query

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Query is the parsed form of a search string.
//
//	"word"    must appear in the searched text
//	-word     must not appear
//	`regex`   must match
//	word      scored with fuzzy matching
type Query struct {
	Raw     string
	Musts   []string
	Nones   []string
	Regexes []*regexp.Regexp
	Fuzzy   []string
}

// ParseError reports a malformed query string.
type ParseError struct {
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query: %s at position %d", e.Reason, e.Pos)
}

// Parse splits raw into its token categories. An empty string yields a query
// that matches every line.
func Parse(raw string) (*Query, error) {
	q := &Query{Raw: raw}
	runes := []rune(raw)

	i := 0
	for {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}

		switch runes[i] {
		case '"':
			value, next, err := delimited(runes, i, '"')
			if err != nil {
				return nil, err
			}
			q.Musts = append(q.Musts, value)
			i = next
		case '`':
			value, next, err := delimited(runes, i, '`')
			if err != nil {
				return nil, err
			}
			re, err := regexp.Compile(value)
			if err != nil {
				return nil, &ParseError{Pos: i, Reason: fmt.Sprintf("invalid regex %q: %v", value, err)}
			}
			q.Regexes = append(q.Regexes, re)
			i = next
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			if len(word) > 1 && word[0] == '-' {
				q.Nones = append(q.Nones, word[1:])
			} else {
				q.Fuzzy = append(q.Fuzzy, word)
			}
		}
	}

	return q, nil
}

// delimited reads a non-empty run enclosed by delim starting at runes[start].
func delimited(runes []rune, start int, delim rune) (string, int, error) {
	end := start + 1
	for end < len(runes) && runes[end] != delim {
		end++
	}
	if end >= len(runes) {
		return "", 0, &ParseError{Pos: start, Reason: fmt.Sprintf("unterminated %c", delim)}
	}
	if end == start+1 {
		return "", 0, &ParseError{Pos: start, Reason: fmt.Sprintf("empty %c%c token", delim, delim)}
	}
	return string(runes[start+1 : end]), end + 1, nil
}

// Empty reports whether the query has no tokens at all.
func (q *Query) Empty() bool {
	return q == nil ||
		len(q.Musts) == 0 && len(q.Nones) == 0 && len(q.Regexes) == 0 && len(q.Fuzzy) == 0
}

// Matches applies the literal and regex gates to text. Fuzzy terms are not
// considered here.
func (q *Query) Matches(text string) bool {
	if q == nil {
		return true
	}
	for _, re := range q.Regexes {
		if !re.MatchString(text) {
			return false
		}
	}
	for _, must := range q.Musts {
		if !strings.Contains(text, must) {
			return false
		}
	}
	for _, none := range q.Nones {
		if strings.Contains(text, none) {
			return false
		}
	}
	return true
}
