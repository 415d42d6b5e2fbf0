package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/marks/internal/query"
	"github.com/Paintersrp/marks/internal/search"
	"github.com/Paintersrp/marks/internal/walker"
)

func countScorer(text, term string) (int, bool) {
	n := strings.Count(text, term)
	return n * 10, n > 0
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newRunner(t *testing.T, raw string, count int) *Runner {
	t.Helper()
	q, err := query.Parse(raw)
	if err != nil {
		t.Fatalf("query.Parse(%q) returned error: %v", raw, err)
	}

	r, err := New(Config{
		Walker: walker.Config{
			OrgExtensions:      []string{"org"},
			MarkdownExtensions: []string{"md"},
		},
		Search:  search.Config{Query: q, Scorer: countScorer},
		Workers: 2,
		Count:   count,
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(r.Release)
	return r
}

type hit struct {
	File  string
	Line  int
	Score int
}

func hits(results []search.Result) []hit {
	out := make([]hit, 0, len(results))
	for _, r := range results {
		out = append(out, hit{File: filepath.Base(r.Path), Line: r.Line, Score: r.Score})
	}
	return out
}

func TestRunRanksAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# Alpha\nalpha beta\n")
	writeFile(t, dir, "b.org", "* Beta\nbeta beta beta\n")
	writeFile(t, dir, "c.txt", "beta beta beta beta\n")

	results, err := newRunner(t, "beta", 0).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []hit{
		{File: "b.org", Line: 2, Score: 30},
		{File: "a.md", Line: 2, Score: 10},
	}
	if diff := cmp.Diff(want, hits(results)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if got := results[0].Headers; len(got) != 1 || got[0] != "Beta" {
		t.Fatalf("expected org heading chain, got %v", got)
	}
}

func TestRunKeepsFileOrderOnTies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "beta\n")
	writeFile(t, dir, "a.md", "beta\nbeta\n")

	results, err := newRunner(t, "beta", 0).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []hit{
		{File: "a.md", Line: 1, Score: 10},
		{File: "a.md", Line: 2, Score: 10},
		{File: "b.md", Line: 1, Score: 10},
	}
	if diff := cmp.Diff(want, hits(results)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTruncatesToCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# Alpha\nalpha beta\n")
	writeFile(t, dir, "b.org", "* Beta\nbeta beta beta\n")

	results, err := newRunner(t, "beta", 1).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff([]hit{{File: "b.org", Line: 2, Score: 30}}, hits(results)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRunWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "beta\n")

	_, err := newRunner(t, "beta", 0).Run(context.Background(), dir)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestSearchSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.md", "beta\n")

	files := []walker.File{
		{Path: filepath.Join(dir, "missing.md"), Kind: walker.KindMarkdown},
		{Path: good, Kind: walker.KindMarkdown},
	}

	results, err := newRunner(t, "beta", 0).Search(context.Background(), files)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if diff := cmp.Diff([]hit{{File: "good.md", Line: 1, Score: 10}}, hits(results)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchHonorsCancelledContext(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.md", "beta\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, "beta", 0).Search(ctx, []walker.File{{Path: good}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
