package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	version           = "0.1.0"
	defaultConfigPath = "configs/moviemate.yaml"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "moviemate",
		Short: "Movie search and recommendations from OMDb",
		Long: "MovieMate searches the OMDb catalog, shows movie details, and recommends\n" +
			"titles that share a genre with a movie you already like.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newSearchCmd(),
		newDetailsCmd(),
		newRecommendCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newBotCmd(),
		newMCPServeCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "MovieMate v%s\n", version)
		},
	}
}
