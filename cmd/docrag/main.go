package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dshills/docrag-mcp/internal/embedder"
	"github.com/dshills/docrag-mcp/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var storageDir string

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "PDF document RAG server over the Model Context Protocol",
	Long: `docrag ingests PDF documents into a local vector store and exposes
semantic search to MCP-compatible AI assistants over stdio.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server communicates over stdio using JSON-RPC; all diagnostics go to
stderr. Embedding provider selection is controlled by environment variables
(DOCRAG_EMBEDDING_PROVIDER, OPENAI_API_KEY, JINA_API_KEY), loaded from a
.env file when one is present.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docrag": {
        "command": "/path/to/docrag",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docrag %s (built %s)\n", version, buildTime)
		cmd.Printf("Embedding provider: %s\n", embedder.DetectProvider())
	},
}

func init() {
	serveCmd.Flags().StringVar(&storageDir, "storage", "",
		"storage directory for documents and the vector index (default ~/.docrag/storage, or DOCRAG_STORAGE_DIR)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Printf("docrag MCP server v%s starting...", version)

	dir := storageDir
	if dir == "" {
		dir = os.Getenv("DOCRAG_STORAGE_DIR")
	}
	if dir == "" {
		dir = mcp.DefaultStorageDir
	}

	server, err := mcp.NewServer(dir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	log.Println("Server stopped")
	return nil
}

func main() {
	// Stdout is reserved for the MCP protocol stream.
	log.SetOutput(os.Stderr)

	// Optional .env for API keys and provider selection.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("docrag: %v", err)
	}
}
