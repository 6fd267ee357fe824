package commands

import (
	"fmt"

	"pipeline/src/clients/xray"
	"pipeline/src/services"

	"github.com/spf13/cobra"
)

func newPublishResultsCommand(opts *rootOptions) *cobra.Command {
	var skipTests bool

	cmd := &cobra.Command{
		Use:   "publish-results",
		Short: "Run the test suite and publish the JUnit report to Xray",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			xrayCfg := a.cfg.ExternalClients.Xray
			if skipTests {
				xrayCfg.TestCommand = nil
			}

			publisher := services.NewResultsPublisher(xrayCfg, xray.NewClient(a.cfg, nil), nil)
			result, err := publisher.Publish(a.context(cmd.Context()))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "results published to test execution %s\n", result.ExecutionKey)
			if result.BrowseURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "URL: %s\n", result.BrowseURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipTests, "skip-tests", false, "publish the existing report without running the tests")
	return cmd
}
