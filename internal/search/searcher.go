package search

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/marks/internal/org"
)

// Searcher walks one document, tracking the heading ancestry of every line.
type Searcher struct {
	path     string
	filename string
	cfg      Config
	filters  []filterKind

	cursor    *org.Cursor
	headers   []*org.Header
	lastDepth int
	skip      bool
}

// NewSearcher prepares a scan of r, reported under path.
func NewSearcher(path string, r io.Reader, cfg Config) *Searcher {
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if cfg.Scorer == nil {
		cfg.Scorer = FuzzyScore
	}
	if cfg.Marker == 0 {
		cfg.Marker = org.MarkdownMarker
	}

	return &Searcher{
		path:     path,
		filename: filepath.Base(path),
		cfg:      cfg,
		filters:  cfg.Criteria.filters(),
		cursor:   org.NewCursor(r),
	}
}

// SearchFile opens path and scans it.
func SearchFile(path string, cfg Config) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("search: open %s: %w", path, err)
	}
	defer f.Close()

	results, err := NewSearcher(path, f, cfg).Search()
	if err != nil {
		return nil, fmt.Errorf("search: read %s: %w", path, err)
	}
	return results, nil
}

// Search consumes the document and returns every matching line in order.
func (s *Searcher) Search() ([]Result, error) {
	var results []Result

	for {
		line, ok := s.cursor.Next()
		if !ok {
			break
		}

		header, isHeader := org.ParseHeaderLine(s.cursor, line, s.cfg.Marker)
		if isHeader {
			s.enter(header)
			s.skip = !s.qualifies()
		}

		// Text above the first heading has no structure to filter on.
		if s.lastDepth == 0 && len(s.filters) > 0 {
			s.skip = true
		}

		if s.skip {
			continue
		}

		if result, ok := s.match(line, isHeader); ok {
			results = append(results, result)
		}
	}

	if err := s.cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ancestors returns the current heading chain, outermost first.
func (s *Searcher) ancestors() []*org.Header {
	return append([]*org.Header(nil), s.headers...)
}

// enter places h in the ancestor chain. Depths may jump (* then ***), so a
// shallower heading truncates to its own depth and replaces the new top.
func (s *Searcher) enter(h *org.Header) {
	depth := h.Depth

	switch {
	case depth > s.lastDepth:
		s.headers = append(s.headers, h)
	case depth == s.lastDepth:
		s.headers[len(s.headers)-1] = h
	default:
		if depth < len(s.headers) {
			s.headers = s.headers[:depth]
		}
		s.headers[len(s.headers)-1] = h
	}

	s.lastDepth = depth
}

func (s *Searcher) qualifies() bool {
	for _, kind := range s.filters {
		if !s.cfg.Criteria.accepts(kind, s.headers) {
			return false
		}
	}
	return true
}

func (s *Searcher) match(line org.Line, isHeader bool) (Result, bool) {
	text := s.composite(line, isHeader)

	if !s.cfg.Query.Matches(text) {
		return Result{}, false
	}

	score := 0
	scored := 0
	if !s.cfg.Query.Empty() {
		for _, term := range s.cfg.Query.Fuzzy {
			if points, ok := s.cfg.Scorer(text, term); ok {
				score += points
				scored++
			}
		}
		if scored == 0 && len(s.cfg.Query.Fuzzy) > 0 {
			return Result{}, false
		}
	}

	content := line.Text
	if isHeader && s.cfg.BlankHeaderContent {
		content = ""
	}

	return Result{
		Score:    score,
		Line:     line.Number,
		Path:     s.path,
		Headers:  s.titles(),
		Content:  content,
		IsHeader: isHeader,
	}, true
}

// composite is the text the query is evaluated against: the heading titles,
// the line itself unless it is a heading, and optionally the file name.
func (s *Searcher) composite(line org.Line, isHeader bool) string {
	parts := make([]string, 0, 3)
	if len(s.headers) > 0 {
		parts = append(parts, strings.Join(s.titles(), s.cfg.Separator))
	}
	if !isHeader {
		parts = append(parts, line.Text)
	}
	if s.cfg.SearchFilename {
		parts = append(parts, s.filename)
	}
	return strings.Join(parts, s.cfg.Separator)
}

func (s *Searcher) titles() []string {
	titles := make([]string, len(s.headers))
	for i, h := range s.headers {
		titles[i] = h.Content
	}
	return titles
}
