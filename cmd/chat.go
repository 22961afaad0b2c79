package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agentic/internal/llm"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the indexed codebase",
	Long: `Starts an interactive session. Each question is answered using the most
relevant source chunks from the index. Type "exit" or press Ctrl-D to quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("repo", "", "restrict retrieval to one repository")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repository, _ := cmd.Flags().GetString("repo")

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

	ag := buildAgent(cfg, buildRetriever(cfg, embedder, st), provider)

	fmt.Println("Ask questions about your code. Type \"exit\" to quit.")

	var history []llm.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		reply, err := ag.Answer(ctx, question, history, repository)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Println()
		fmt.Println(reply.Answer)
		if len(reply.Sources) > 0 {
			fmt.Printf("\nSources: %s\n", strings.Join(reply.Sources, ", "))
		}
		fmt.Println()

		history = append(history,
			llm.Message{Role: llm.RoleUser, Content: question},
			llm.Message{Role: llm.RoleAssistant, Content: reply.Answer},
		)
	}
}
