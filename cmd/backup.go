package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup <outfile>",
	Short: "Export every indexed chunk to a JSON file",
	Long: `Export the full index, embeddings included, to a JSON file.
Useful before running clear or reindex.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	outfile := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	chunks, err := st.All(context.Background())
	if err != nil {
		return err
	}

	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outfile, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunks); err != nil {
		return fmt.Errorf("writing %s: %w", outfile, err)
	}

	fmt.Printf("Backed up %d chunks to %s\n", len(chunks), outfile)
	return nil
}
