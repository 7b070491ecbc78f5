// Package main provides the knowledge-base ingestion CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/velvetcrest/salon-rag/internal/config"
	"github.com/velvetcrest/salon-rag/internal/embedding"
	"github.com/velvetcrest/salon-rag/internal/ingest"
	"github.com/velvetcrest/salon-rag/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "salon-ingest",
	Short: "Salon knowledge-base ingestion tool",
	Long:  "CLI tool for rebuilding the salon knowledge-base index in Qdrant from CSV sources",
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the index from the CSV knowledge sources",
	Long: `Reads the salon CSV sources, clears the existing index and rebuilds it.

This command:
1. Connects to Qdrant and verifies health
2. Reads and validates all CSV sources (services, FAQ, policies, hours, staff)
3. Clears the existing collection
4. Embeds every document and stores it in Qdrant

The rebuild is all-or-nothing: a malformed source file aborts the run
before the reset, leaving the previous index intact.

Environment variables:
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings (required)`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println("Starting ingestion...")
	fmt.Println()

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	store, err := storage.NewQdrantStore(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	fmt.Println("Qdrant healthy")

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, cfg.Embedding.BatchSize)

	pipeline := ingest.NewPipeline(store, embedder, slog.Default())

	fmt.Println()
	fmt.Println("Rebuilding index from CSV sources...")
	result, err := pipeline.Run(ctx, ingest.DataFiles{
		Services: cfg.Data.Services,
		Aliases:  cfg.Data.Aliases,
		FAQ:      cfg.Data.FAQ,
		Policies: cfg.Data.Policies,
		Hours:    cfg.Data.Hours,
		Staff:    cfg.Data.Staff,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Ingestion complete!")
	for _, src := range result.Sources {
		fmt.Printf("  %-10s %d\n", src.Source+":", src.Count)
	}
	fmt.Printf("  Total: %d\n", result.Total)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	fmt.Printf("  Index count: %d\n", count)

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
