package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Paintersrp/marks/internal/search"
)

var sample = search.Result{
	Score:   12,
	Line:    7,
	Path:    "notes/work.org",
	Headers: []string{"Projects", "Marks"},
	Content: "ship the parser",
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		result search.Result
		want   string
	}{
		{
			name:   "headers",
			result: sample,
			want:   "notes/work.org:7:Projects/Marks:ship the parser",
		},
		{
			name:   "custom separator",
			opts:   Options{HeaderSeparator: " > "},
			result: sample,
			want:   "notes/work.org:7:Projects > Marks:ship the parser",
		},
		{
			name:   "no headers",
			opts:   Options{NoHeaders: true},
			result: sample,
			want:   "notes/work.org:7:ship the parser",
		},
		{
			name:   "null separator",
			opts:   Options{Null: true},
			result: sample,
			want:   "notes/work.org\x007:Projects/Marks:ship the parser",
		},
		{
			name:   "preamble line",
			result: search.Result{Line: 1, Path: "a.md", Content: "intro"},
			want:   "a.md:1:intro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Color = ColorNever
			got := New(&bytes.Buffer{}, tt.opts).Format(tt.result)
			if got != tt.want {
				t.Fatalf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintWritesOneLinePerResult(t *testing.T) {
	var buf bytes.Buffer
	second := sample
	second.Line = 9
	second.Headers = nil

	if err := New(&buf, Options{Color: ColorNever}).Print([]search.Result{sample, second}); err != nil {
		t.Fatalf("Print returned error: %v", err)
	}

	want := "notes/work.org:7:Projects/Marks:ship the parser\nnotes/work.org:9:ship the parser\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, Options{JSON: true, Color: ColorNever}).Print([]search.Result{sample}); err != nil {
		t.Fatalf("Print returned error: %v", err)
	}

	var got search.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding output %q: %v", buf.String(), err)
	}
	if diff := cmp.Diff(sample, got); diff != "" {
		t.Fatalf("decoded result mismatch (-want +got):\n%s", diff)
	}
}

func TestColorModes(t *testing.T) {
	var buf bytes.Buffer
	if ShouldColor(ColorAuto, &buf) {
		t.Fatalf("expected auto mode to disable color for a buffer")
	}
	if !ShouldColor(ColorAlways, &buf) {
		t.Fatalf("expected always mode to enable color")
	}
	if ShouldColor(ColorNever, &buf) {
		t.Fatalf("expected never mode to disable color")
	}

	colored := New(&buf, Options{Color: ColorAlways}).Format(sample)
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("expected ANSI sequences in %q", colored)
	}
	if !strings.HasSuffix(colored, "ship the parser") {
		t.Fatalf("expected content to stay unstyled, got %q", colored)
	}
}
