package fzf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/marks/internal/cache"
	"github.com/Paintersrp/marks/internal/pathutil"
	"github.com/Paintersrp/marks/internal/search"
)

// ErrNoSelection is returned when the picker is closed without a choice.
var ErrNoSelection = errors.New("no result selected")

// previewContext is the number of lines shown above a match in the preview.
const previewContext = 5

type previewKey struct {
	index, width, height int
}

// FuzzyFinder lets the user pick one result from a ranked list.
type FuzzyFinder struct {
	root    string
	Header  string
	results []search.Result

	files    *cache.LRU[string, string]
	previews *cache.LRU[previewKey, string]
}

func NewFuzzyFinder(root, header string, results []search.Result) *FuzzyFinder {
	return &FuzzyFinder{
		root:     root,
		Header:   header,
		results:  results,
		files:    cache.NewLRU[string, string](16),
		previews: cache.NewLRU[previewKey, string](64),
	}
}

// Run opens the picker and returns the chosen result.
func (f *FuzzyFinder) Run() (search.Result, error) {
	if len(f.results) == 0 {
		return search.Result{}, ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.results, f.Label, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return search.Result{}, ErrNoSelection
		}
		return search.Result{}, fmt.Errorf("fzf: %w", err)
	}

	return f.results[idx], nil
}

// Label is the text shown for result i in the picker list.
func (f *FuzzyFinder) Label(i int) string {
	r := f.results[i]

	name := r.Path
	if rel, err := pathutil.Relative(f.root, r.Path); err == nil && !strings.HasPrefix(rel, "..") {
		name = rel
	}

	label := fmt.Sprintf("%s:%d", name, r.Line)
	if len(r.Headers) > 0 {
		label += " [" + strings.Join(r.Headers, " / ") + "]"
	}
	if content := strings.TrimSpace(r.Content); content != "" {
		label += " " + content
	}
	return label
}

// Location formats a result as path:line.
func Location(r search.Result) string {
	return fmt.Sprintf("%s:%d", r.Path, r.Line)
}

// Copy places the result location on the system clipboard.
func Copy(r search.Result) error {
	if err := clipboard.WriteAll(Location(r)); err != nil {
		return fmt.Errorf("fzf: copying to clipboard: %w", err)
	}
	return nil
}

func (f *FuzzyFinder) renderPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	preview, _ := f.previews.GetOrLoad(previewKey{i, w, h}, func() (string, error) {
		return f.preview(f.results[i], w, h), nil
	})
	return preview
}

func (f *FuzzyFinder) preview(r search.Result, w, h int) string {
	content, err := f.files.GetOrLoad(r.Path, func() (string, error) {
		data, err := os.ReadFile(r.Path)
		return string(data), err
	})
	if err != nil {
		return "Error reading file"
	}

	excerpt := Excerpt(content, r.Line, previewContext, h)
	if strings.ToLower(filepath.Ext(r.Path)) == ".org" {
		// glamour only understands markdown; org text is shown as-is.
		return excerpt
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(w),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return excerpt
	}

	rendered, err := renderer.Render(excerpt)
	if err != nil {
		return "Error rendering markdown"
	}
	return rendered
}

// Excerpt returns up to height lines of content starting a few lines above
// line (1-based).
func Excerpt(content string, line, before, height int) string {
	lines := strings.Split(content, "\n")

	start := line - 1 - before
	if start < 0 {
		start = 0
	}
	if start > len(lines) {
		start = len(lines)
	}

	end := len(lines)
	if height > 0 && start+height < end {
		end = start + height
	}

	return strings.Join(lines[start:end], "\n")
}
