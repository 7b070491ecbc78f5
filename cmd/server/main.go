// Package main runs the salon knowledge-base retrieval API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/velvetcrest/salon-rag/internal/api"
	"github.com/velvetcrest/salon-rag/internal/config"
	"github.com/velvetcrest/salon-rag/internal/embedding"
	mcpserver "github.com/velvetcrest/salon-rag/internal/mcp"
	"github.com/velvetcrest/salon-rag/internal/retrieval"
	"github.com/velvetcrest/salon-rag/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := storage.NewQdrantStore(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, cfg.Embedding.BatchSize)

	svc := retrieval.NewService(embedder, store)

	mux := api.NewMux(svc)
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(mcpserver.NewServer(svc)))

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Server.Port,
		Handler: api.CORS(mux),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting HTTP server on %s (retrieve at /rag/retrieve, health at /health, MCP at /mcp)", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server error: %v", err)
	}
}
