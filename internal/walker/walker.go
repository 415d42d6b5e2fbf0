package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Paintersrp/marks/internal/org"
	"github.com/Paintersrp/marks/internal/pathutil"
)

// Config describes which files a search visits.
type Config struct {
	OrgExtensions      []string
	MarkdownExtensions []string
	NoOrg              bool
	NoMarkdown         bool
	// IgnoredFolders holds directory or file names that are never entered.
	IgnoredFolders []string
}

// DefaultIgnoredFolders is always skipped in addition to configured folders.
var DefaultIgnoredFolders = []string{"node_modules"}

// Kind tells how a discovered file should be parsed.
type Kind int

const (
	KindMarkdown Kind = iota
	KindOrg
)

// File is a document selected for searching.
type File struct {
	Path string
	Kind Kind
}

// Find walks root and returns the org and markdown files to search, sorted
// by path. Hidden entries and ignored folders are skipped. When root is a
// file it is returned as long as its extension is enabled.
func Find(root string, cfg Config) ([]File, error) {
	root = pathutil.NormalizePath(root)
	if root == "" {
		root = "."
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !info.IsDir() {
		if kind, ok := cfg.classify(root); ok {
			return []File{{Path: root, Kind: kind}}, nil
		}
		return nil, nil
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than aborting the walk.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && cfg.skipped(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if kind, ok := cfg.classify(path); ok {
			files = append(files, File{Path: path, Kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: walking %q: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func (cfg Config) skipped(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignored := range DefaultIgnoredFolders {
		if name == ignored {
			return true
		}
	}
	for _, ignored := range cfg.IgnoredFolders {
		if ignored != "" && strings.EqualFold(name, ignored) {
			return true
		}
	}
	return false
}

func (cfg Config) classify(path string) (Kind, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, false
	}
	if !cfg.NoOrg && hasExtension(cfg.OrgExtensions, ext) {
		return KindOrg, true
	}
	if !cfg.NoMarkdown && hasExtension(cfg.MarkdownExtensions, ext) {
		return KindMarkdown, true
	}
	return 0, false
}

func hasExtension(list []string, ext string) bool {
	for _, candidate := range list {
		if strings.EqualFold(strings.TrimPrefix(candidate, "."), ext) {
			return true
		}
	}
	return false
}

// Marker returns the heading marker used by files of this kind.
func (k Kind) Marker() org.Marker {
	if k == KindOrg {
		return org.OrgMarker
	}
	return org.MarkdownMarker
}
