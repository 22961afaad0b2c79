package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agentic/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.DefaultConfigFile); err == nil {
		return fmt.Errorf("%s already exists; edit it directly or remove it first", config.DefaultConfigFile)
	}

	_, err := config.RunWizard()
	return err
}
