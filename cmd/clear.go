package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear [repository]",
	Short: "Remove indexed chunks",
	Long: `With a repository argument, removes that repository's chunks. Without
one, empties the whole index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

var clearSessionsCmd = &cobra.Command{
	Use:   "clear-sessions",
	Short: "Remove all stored chat sessions",
	RunE:  runClearSessions,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(clearSessionsCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		deleted, err := st.DeleteRepository(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d chunks for %s\n", deleted, args[0])
		return nil
	}

	if err := st.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Index cleared.")
	return nil
}

func runClearSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DB.Redis == "" {
		fmt.Println("No Redis configured; sessions are in-memory and vanish on restart.")
		return nil
	}

	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	removed, err := sessions.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d sessions\n", removed)
	return nil
}
