// Package main provides the classifier training CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/velvetcrest/salon-rag/internal/classifier"
	"github.com/velvetcrest/salon-rag/internal/config"
	"github.com/velvetcrest/salon-rag/internal/embedding"
)

var rootCmd = &cobra.Command{
	Use:   "salon-train",
	Short: "Salon intent/item classifier training tool",
	Long:  "Trains the conversational intent and service-item classifiers over knowledge-base embeddings",
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train both classifiers from the labeled variants dataset",
	Long: `Trains two multinomial logistic-regression classifiers over embeddings:
one predicting the conversational intent and one predicting the
specific service/FAQ/policy item referenced.

This command:
1. Loads the labeled dataset (variant, category, item columns)
2. Maps categories to intents, reporting dropped rows
3. Splits 80/20 stratified by intent with a fixed seed
4. Encodes both splits through the embedding model
5. Fits both classifiers and prints held-out reports
6. Saves both models plus the embedder reference

Environment variables:
  OPENAI_API_KEY OpenAI API key for embeddings (required)`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, cfg.Embedding.BatchSize)

	trainer := classifier.NewTrainer(embedder, slog.Default())

	fmt.Printf("Training from %s...\n", cfg.Training.Dataset)
	result, err := trainer.Run(ctx, cfg.Training.Dataset, cfg.Training.ModelDir)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Training complete!")
	fmt.Printf("  Train/test: %d/%d\n", result.TrainSize, result.TestSize)
	fmt.Printf("  Dropped rows: %d missing fields, %d unmapped categories\n",
		result.DroppedMissing, result.DroppedUnmapped)
	fmt.Printf("  Intents: %v\n", result.Intents)
	fmt.Printf("  Models saved to: %s\n", cfg.Training.ModelDir)
	fmt.Printf("  Total time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
