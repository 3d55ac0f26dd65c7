package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crumbtrail/internal/config"
	"github.com/vango-dev/crumbtrail/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a configuration file with the defaults",
		Long: `Write a configuration file holding every default value.

The format follows the file name: crumbs.yaml (default) or crumbs.json.

Examples:
  crumbs init
  crumbs init crumbs.json
  crumbs init --dir ./deploy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "crumbs.yaml"
			if len(args) == 1 {
				name = args[0]
			}
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("E301").
					WithDetailf("%s already exists", path).
					WithSuggestion("Use --force to overwrite it")
			}

			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write to")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
