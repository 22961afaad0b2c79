package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Total chunks:  %d\n", stats.TotalChunks)
	fmt.Printf("Repositories:  %d\n", stats.Repositories)
	fmt.Printf("Files:         %d\n", stats.Files)
	if stats.TotalChunks > 0 {
		fmt.Printf("Chunk length:  min %d / avg %.0f / max %d\n",
			stats.MinChunkLen, stats.AvgChunkLen, stats.MaxChunkLen)
	}
	if len(stats.PerRepository) > 0 {
		fmt.Println("\nPer repository:")
		for _, r := range stats.PerRepository {
			fmt.Printf("  %-30s %d chunks\n", r.Repository, r.Chunks)
		}
	}
	return nil
}
