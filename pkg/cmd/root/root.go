/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package root

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/marks/internal/config"
	"github.com/Paintersrp/marks/internal/constants"
	"github.com/Paintersrp/marks/internal/fzf"
	"github.com/Paintersrp/marks/internal/output"
	"github.com/Paintersrp/marks/internal/query"
	"github.com/Paintersrp/marks/internal/runner"
	"github.com/Paintersrp/marks/internal/search"
	"github.com/Paintersrp/marks/internal/state"
	"github.com/Paintersrp/marks/internal/walker"
	"github.com/Paintersrp/marks/pkg/flags"
)

type options struct {
	configFile string
	query      string
	count      int
	noOrg      bool
	noMarkdown bool
	noColor    bool
	noHeaders  bool
	null       bool
	json       bool
	blank      bool
	debug      bool
	pick       bool
	copy       bool
}

// viper-bound flags, keyed by config key.
var bound = map[string]string{
	config.KeyOrgExtensions:   "org-extension",
	config.KeyMdExtensions:    "md-extension",
	config.KeyIgnoredFolders:  "ignore",
	config.KeyHeaderSeparator: "header-separator",
	config.KeyWorkers:         "workers",
	config.KeyColor:           "color",
	config.KeySearchFilename:  "search-filename",
}

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	var opts options

	cmd := &cobra.Command{
		Use:     "marks [query] [path]",
		Short:   "A search-engine like search tool for markdown and org-mode files.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Search markdown and org-mode files line by line. Every line is matched
			together with the titles of the headings it lives under.

			An example query may look like this:

			    '"this" is a ` + "`(test|trial)`" + ` query -badword'

			It requires the word "this" and the regex (test|trial) to appear in the
			heading chain or the line, and "badword" to appear in neither. The rest
			of the words are matched fuzzily and decide the ranking.
		`),
		Example: heredoc.Doc(`
			$ marks '"meeting" notes' ~/notes
			$ marks --tagged work --todo TODO --priority-gt C -q review
			$ marks --deadline-at 2024-05-01 -p ~/org/agenda.org
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			// With -q the only positional argument left is the path.
			if cmd.Flags().Changed("query") {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.MaximumNArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			for key, name := range bound {
				if err := s.Viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			return s.LoadConfig(opts.configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.query, "query", "q", "", "The query (default is the first argument)")
	flags.AddPath(cmd)
	f.StringSliceP("org-extension", "o", nil, "Extensions of org files (default org)")
	f.StringSliceP("md-extension", "m", nil, "Extensions of markdown files (default md,markdown)")
	f.StringSlice("ignore", nil, "Directory names that are never entered")
	f.IntVarP(&opts.count, "count", "c", 0, "How many results to show, 0 for all")
	f.BoolVar(&opts.noOrg, "no-org", false, "Don't search org files")
	f.BoolVar(&opts.noMarkdown, "no-markdown", false, "Don't search markdown files")
	f.Bool("search-filename", false, "Match the query against file names too")
	f.String("color", "", "Color output: auto, always or never")
	f.BoolVar(&opts.noColor, "no-color", false, "Don't use colors for the output")
	f.BoolVar(&opts.noHeaders, "no-headers", false, "Don't include headers in the output")
	f.String("header-separator", "", "Separator between headers in the output (default \"/\")")
	f.BoolVar(&opts.null, "null", false, "Separate path and line number with a NUL byte")
	f.BoolVar(&opts.json, "json", false, "Print one JSON object per result")
	f.BoolVar(&opts.blank, "blank-header-content", false, "Leave the content empty for heading lines")
	f.IntP("workers", "w", 0, "Files searched concurrently (default number of CPUs)")
	f.BoolVarP(&opts.pick, "interactive", "i", false, "Pick a result with a fuzzy finder")
	f.BoolVar(&opts.copy, "copy", false, "Copy the picked path:line to the clipboard")
	flags.AddFilters(cmd)

	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Log debug output to stderr")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.marks/cfg.yaml)")

	return cmd, nil
}

func run(cmd *cobra.Command, args []string, s *state.State, opts options) error {
	raw := opts.query
	pathArg := 0
	if !cmd.Flags().Changed("query") {
		pathArg = 1
		if len(args) > 0 {
			raw = args[0]
		}
	}

	q, err := query.Parse(raw)
	if err != nil {
		return err
	}

	criteria, err := flags.HandleFilters(cmd)
	if err != nil {
		return err
	}

	root, err := flags.HandlePath(cmd, args, pathArg)
	if err != nil {
		return err
	}

	settings, err := s.Settings()
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Config{
		Walker: walker.Config{
			OrgExtensions:      settings.OrgExtensions,
			MarkdownExtensions: settings.MarkdownExtensions,
			NoOrg:              opts.noOrg,
			NoMarkdown:         opts.noMarkdown,
			IgnoredFolders:     settings.IgnoredFolders,
		},
		Search: search.Config{
			Query:              q,
			Criteria:           criteria,
			SearchFilename:     settings.SearchFilename,
			BlankHeaderContent: opts.blank,
		},
		Workers: settings.Workers,
		Count:   opts.count,
		Logger:  s.Logger,
	})
	if err != nil {
		return err
	}
	defer r.Release()

	results, err := r.Run(cmd.Context(), root)
	if err != nil {
		if errors.Is(err, runner.ErrNoFiles) {
			return fmt.Errorf("no org or markdown files found in %s", root)
		}
		return err
	}

	if opts.pick {
		return pick(cmd, root, raw, results, opts.copy)
	}

	color := settings.Color
	if opts.noColor {
		color = output.ColorNever
	}

	return output.New(cmd.OutOrStdout(), output.Options{
		NoHeaders:       opts.noHeaders,
		HeaderSeparator: settings.HeaderSeparator,
		Null:            opts.null,
		Color:           color,
		JSON:            opts.json,
	}).Print(results)
}

func pick(cmd *cobra.Command, root, raw string, results []search.Result, toClipboard bool) error {
	finder := fzf.NewFuzzyFinder(root, fmt.Sprintf("%d results for %q", len(results), raw), results)

	picked, err := finder.Run()
	if err != nil {
		if errors.Is(err, fzf.ErrNoSelection) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No result selected")
			return nil
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), fzf.Location(picked))
	if toClipboard {
		return fzf.Copy(picked)
	}
	return nil
}
