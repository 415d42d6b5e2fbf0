package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Paintersrp/marks/internal/search"
)

// DefaultHeaderSeparator sits between heading titles in printed results.
const DefaultHeaderSeparator = "/"

// Color modes accepted by Options.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Options struct {
	NoHeaders       bool
	HeaderSeparator string
	// Null writes a NUL byte between path and line number instead of ':'.
	Null bool
	// Color is one of ColorAuto, ColorAlways or ColorNever.
	Color string
	JSON  bool
}

// Printer writes search results to a stream.
type Printer struct {
	w    io.Writer
	opts Options

	path   lipgloss.Style
	line   lipgloss.Style
	header lipgloss.Style
	punct  lipgloss.Style
}

func New(w io.Writer, opts Options) *Printer {
	if opts.HeaderSeparator == "" {
		opts.HeaderSeparator = DefaultHeaderSeparator
	}

	renderer := lipgloss.NewRenderer(w)
	if ShouldColor(opts.Color, w) {
		if renderer.ColorProfile() == termenv.Ascii {
			renderer.SetColorProfile(termenv.ANSI)
		}
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		w:      w,
		opts:   opts,
		path:   renderer.NewStyle().Foreground(lipgloss.Color("5")),
		line:   renderer.NewStyle().Foreground(lipgloss.Color("2")),
		header: renderer.NewStyle().Foreground(lipgloss.Color("4")),
		punct:  renderer.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// ShouldColor resolves a color mode for w. In auto mode only terminals get
// color.
func ShouldColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Print writes every result, one per line.
func (p *Printer) Print(results []search.Result) error {
	if p.opts.JSON {
		enc := json.NewEncoder(p.w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("output: encoding result: %w", err)
			}
		}
		return nil
	}

	for _, r := range results {
		if _, err := io.WriteString(p.w, p.Format(r)+"\n"); err != nil {
			return fmt.Errorf("output: %w", err)
		}
	}
	return nil
}

// Format renders r as path:line:h1/h2:content.
func (p *Printer) Format(r search.Result) string {
	var b strings.Builder

	b.WriteString(p.path.Render(r.Path))
	if p.opts.Null {
		b.WriteByte(0)
	} else {
		b.WriteString(p.punct.Render(":"))
	}
	b.WriteString(p.line.Render(strconv.Itoa(r.Line)))
	b.WriteString(p.punct.Render(":"))

	if !p.opts.NoHeaders && len(r.Headers) > 0 {
		for i, h := range r.Headers {
			if i > 0 {
				b.WriteString(p.punct.Render(p.opts.HeaderSeparator))
			}
			b.WriteString(p.header.Render(h))
		}
		b.WriteString(p.punct.Render(":"))
	}

	b.WriteString(r.Content)
	return b.String()
}
