package search

import (
	"github.com/Paintersrp/marks/internal/org"
	"github.com/Paintersrp/marks/internal/query"
)

// DefaultSeparator joins heading titles when building the searched text.
const DefaultSeparator = " / "

// Property is a required KEY=value pair from a property drawer.
type Property struct {
	Key   string
	Value string
}

// Criteria describes the structural filters of a run. Sections whose
// headings do not satisfy every configured filter emit nothing.
type Criteria struct {
	// Tags must all be present somewhere in the heading ancestry.
	Tags []string
	// Props must all be present somewhere in the heading ancestry.
	Props []Property
	// Todo lists accepted keywords for the innermost heading.
	Todo []org.Todo
	// Priorities lists accepted priorities for the innermost heading.
	Priorities []org.Priority
	// PriorityLT and PriorityGT are strict bounds. Empty means unset.
	PriorityLT org.Priority
	PriorityGT org.Priority
	// Schedule is matched against the innermost heading's planning line.
	Schedule *org.DateTime
}

// Structural reports whether any filter is configured.
func (c Criteria) Structural() bool {
	return len(c.filters()) > 0
}

// Config describes a single file scan.
type Config struct {
	Query    *query.Query
	Criteria Criteria
	Marker   org.Marker
	// SearchFilename appends the file name to the searched text.
	SearchFilename bool
	// BlankHeaderContent leaves Result.Content empty for heading lines.
	BlankHeaderContent bool
	// Separator joins heading titles. DefaultSeparator when empty.
	Separator string
	// Scorer scores fuzzy terms. FuzzyScore when nil.
	Scorer Scorer
}

// Result is a single matching line.
type Result struct {
	Score    int      `json:"score"`
	Line     int      `json:"line"`
	Path     string   `json:"path"`
	Headers  []string `json:"headers"`
	Content  string   `json:"content"`
	IsHeader bool     `json:"is_header"`
}
