package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mrz1836/recforge/internal/tui"
)

// versionReport is the JSON form of the version command.
type versionReport struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// AddVersionCommand adds the version command to the root command.
func AddVersionCommand(root *cobra.Command, flags *GlobalFlags, info BuildInfo) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd.OutOrStdout(), flags.Output, info)
		},
	})
}

func runVersion(w io.Writer, format string, info BuildInfo) error {
	if format == OutputJSON {
		return tui.NewJSONOutput(w).JSON(versionReport{
			Version: orDefault(info.Version, "dev"),
			Commit:  orDefault(info.Commit, "none"),
			Date:    orDefault(info.Date, "unknown"),
			Go:      runtime.Version(),
		})
	}
	_, err := fmt.Fprintf(w, "recforge %s\n", formatVersion(info))
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
