package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/sldview/internal/config"
)

// NewInitCmd creates the init subcommand.
func NewInitCmd(io FileIO) *cobra.Command {
	return newInitCmdWithGetCWD(io, os.Getwd)
}

func newInitCmdWithGetCWD(io FileIO, getwd func() (string, error)) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Write a default " + config.FileName + " in the project directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")
			if project == "" {
				cwd, err := getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
				project = cwd
			}

			configPath := filepath.Join(project, config.FileName)

			exists, err := io.StatFile(configPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", configPath, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.FileName, project)
			}

			body, err := config.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			content := append([]byte("# sldview project configuration\n"), body...)
			if err := io.WriteFileAtomic(configPath, content); err != nil {
				return fmt.Errorf("writing %s: %w", config.FileName, err)
			}

			if exists {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing "+config.FileName)
			}
			envFrom(cmd).log.Debug("wrote config", "path", configPath)

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized "+project)
			return nil
		},
	}

	cmd.Flags().String("project", "", "project directory (default: current directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
