package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/recforge/internal/config"
	"github.com/mrz1836/recforge/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect recforge configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after merging built-in defaults,
~/.recforge/config.yaml, .recforge/config.yaml and RECFORGE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd.Context())
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			return runConfigShow(cmd.OutOrStdout(), flags.Output, cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where configuration files are read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigPath(cmd.OutOrStdout(), flags.Output)
		},
	})

	root.AddCommand(cmd)
}

// runConfigShow prints cfg as YAML, or as JSON with the same keys.
func runConfigShow(w io.Writer, format string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if format == OutputJSON {
		var view map[string]any
		if err := yaml.Unmarshal(data, &view); err != nil {
			return fmt.Errorf("failed to re-read config: %w", err)
		}
		return tui.NewJSONOutput(w).JSON(view)
	}

	_, err = w.Write(data)
	return err
}

// configFile is one configuration layer and whether it is present.
type configFile struct {
	Scope  string `json:"scope"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func configFiles() []configFile {
	files := make([]configFile, 0, 2)
	if global, err := config.GlobalConfigPath(); err == nil {
		files = append(files, configFile{Scope: "global", Path: global, Exists: exists(global)})
	}
	project := config.ProjectConfigPath()
	return append(files, configFile{Scope: "project", Path: project, Exists: exists(project)})
}

func runConfigPath(w io.Writer, format string) error {
	files := configFiles()
	if format == OutputJSON {
		return tui.NewJSONOutput(w).JSON(files)
	}

	table := tui.NewTable(w, []tui.TableColumn{{Name: "SCOPE", Width: 8}, {Name: "EXISTS", Width: 6}, {Name: "PATH"}})
	table.WriteHeader()
	for _, f := range files {
		table.WriteRow(f.Scope, fmt.Sprintf("%t", f.Exists), f.Path)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadConfig loads the layered configuration and applies flag overrides.
func loadConfig(ctx context.Context, overrides *config.Config) (*config.Config, error) {
	return config.LoadWithOverrides(ctx, overrides)
}
