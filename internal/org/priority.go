package org

import (
	"strings"
	"unicode"
)

// Priority is the X of a [#X] cookie. The zero value means no priority.
type Priority string

// Compare returns a positive number when p ranks above other, a negative
// number when it ranks below and zero when they are equal.
//
// Letters rank inversely (A is above B), numbers rank by value (15 is above
// 13) and anything else falls back to plain string order.
func (p Priority) Compare(other Priority) int {
	a, b := string(p), string(other)

	if isAlpha(a) && isAlpha(b) {
		return strings.Compare(b, a)
	}

	if isNumeric(a) && isNumeric(b) {
		return compareDigits(a, b)
	}

	return strings.Compare(a, b)
}

// Greater reports whether p ranks strictly above other.
func (p Priority) Greater(other Priority) bool {
	return p.Compare(other) > 0
}

// Less reports whether p ranks strictly below other.
func (p Priority) Less(other Priority) bool {
	return p.Compare(other) < 0
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// compareDigits orders two decimal strings by value without a size limit.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) > len(b) {
			return 1
		}
		return -1
	}
	return strings.Compare(a, b)
}
