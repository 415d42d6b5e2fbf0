package flags

import (
	"github.com/spf13/cobra"
)

func AddPath(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"path",
			"p",
			"",
			"File or directory to search (default is the current directory)",
		)
}

// HandlePath returns the search root from --path, falling back to the
// positional argument at index pos and then to the current directory.
func HandlePath(cmd *cobra.Command, args []string, pos int) (string, error) {
	path, err := cmd.Flags().GetString("path")
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	if pos < len(args) && args[pos] != "" {
		return args[pos], nil
	}
	return ".", nil
}
