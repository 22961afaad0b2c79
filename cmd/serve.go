package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agentic/internal/ingest"
	"github.com/ziadkadry99/agentic/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the RAG API: POST /chat for conversational answers, POST /query
for raw similarity search, POST /ingest to index a source tree, and
GET /stats for index statistics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	provider, err := createProvider(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting session store: %w", err)
	}
	defer sessions.Close()

	ret := buildRetriever(cfg, embedder, st)
	ag := buildAgent(cfg, ret, provider)
	pipeline := buildPipeline(cfg, embedder, st)

	ingestFn := func(ctx context.Context, path, repository string) (*ingest.Result, error) {
		files, err := collectFiles(cfg, path)
		if err != nil {
			return nil, err
		}
		if repository == "" {
			repository = ingest.ResolveRepositoryName(path)
		}
		return pipeline.Ingest(ctx, files, repository)
	}

	srv := server.New(server.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		AllowAll: allowAll,
	}, st, ret, ag, sessions, ingestFn)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
