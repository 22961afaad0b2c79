package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agentic/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "agentic",
	Short: "Retrieval-augmented code assistant",
	Long: `Agentic indexes source repositories into a local vector store and
answers natural-language questions about the code. It serves an HTTP
API for chat and search, and integrates with AI agents via MCP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lmicroseconds)
		} else {
			log.SetFlags(0)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
