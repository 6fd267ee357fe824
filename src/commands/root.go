package commands

import (
	"os"

	"pipeline/src/config"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	settingsPath string
	env          string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Daily portfolio valuation sync",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		// Without a subcommand the service type from the settings decides.
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			if a.cfg.Service.Type == config.WORKER {
				return serve(cmd, a)
			}
			return runOnce(cmd, a)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.settingsPath, "settings", "./settings", "directory holding appsettings.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.env, "env", os.Getenv("ENV"), "settings overlay to merge (appsettings.<env>.yaml)")

	rootCmd.AddCommand(
		newRunCommand(opts),
		newServeCommand(opts),
		newMigrateCommand(opts),
		newPublishResultsCommand(opts),
	)

	return rootCmd
}
