package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agentic/internal/ingest"
	"github.com/ziadkadry99/agentic/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a source tree into the vector store",
	Long: `Walks the given directory (default: current directory), splits every
source file into chunks, embeds them, and stores them for retrieval.
Re-running over an unchanged tree overwrites existing chunks instead of
duplicating them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args, false)
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [path]",
	Short: "Rebuild the index for a repository from scratch",
	Long: `Deletes every stored chunk for the repository, then ingests the source
tree again. Use this after large refactors so deleted files do not
linger in the index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{ingestCmd, reindexCmd} {
		c.Flags().String("repo", "", "repository name (default: derived from the path)")
		rootCmd.AddCommand(c)
	}
}

func runIngest(cmd *cobra.Command, args []string, fresh bool) error {
	ctx := context.Background()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repository, _ := cmd.Flags().GetString("repo")
	if repository == "" {
		repository = ingest.ResolveRepositoryName(root)
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	files, err := collectFiles(cfg, root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No source files found.")
		return nil
	}

	pipeline := buildPipeline(cfg, embedder, st)

	reporter := progress.NewReporter()
	var started bool
	pipeline.SetProgressFunc(func(done, total int, path string) {
		if !started {
			reporter.Start(total)
			started = true
		}
		reporter.Update(done, path)
	})

	var result *ingest.Result
	if fresh {
		result, err = pipeline.Reindex(ctx, files, repository)
	} else {
		result, err = pipeline.Ingest(ctx, files, repository)
	}
	if started {
		reporter.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %s: %d files, %d chunks persisted", result.Repository, result.Files, result.Persisted)
	if result.Failed > 0 {
		fmt.Printf(", %d failed", result.Failed)
	}
	fmt.Printf(" (%s)\n", result.Duration.Round(time.Millisecond))
	return nil
}
