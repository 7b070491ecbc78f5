// Package retrieval answers user questions against the embedded
// knowledge base: embed the query, ask the index for the k nearest
// documents, shape the response.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/velvetcrest/salon-rag/internal/storage"
)

// DefaultK is the result count used when a caller does not specify k.
const DefaultK = 3

// Index is the read-only slice of the index store the service uses.
type Index interface {
	Query(ctx context.Context, embedding []float32, k int) ([]storage.QueryResult, error)
	Count(ctx context.Context) (int, error)
	CollectionName() string
}

// QueryEmbedder embeds a single query text.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Result is one retrieved document.
type Result struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
}

// RetrieveResponse is the shaped answer for one retrieval call.
type RetrieveResponse struct {
	Query     string   `json:"query"`
	K         int      `json:"k"`
	LatencyMs float64  `json:"latency_ms"`
	Results   []Result `json:"results"`
}

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Status     string `json:"status"`
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}

// Service retrieves the most relevant knowledge-base documents for a
// query. Read-only against the index and safe for concurrent calls.
type Service struct {
	embedder QueryEmbedder
	index    Index
}

// NewService creates a retrieval service over the given embedder and index.
func NewService(embedder QueryEmbedder, index Index) *Service {
	return &Service{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve embeds the query and returns the k nearest documents,
// closest first. k <= 0 falls back to DefaultK. Latency covers the
// embed and query steps, in milliseconds rounded to 2 decimals.
func (s *Service) Retrieve(ctx context.Context, query string, k int) (*RetrieveResponse, error) {
	if k <= 0 {
		k = DefaultK
	}

	start := time.Now()

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	latency := float64(time.Since(start).Microseconds()) / 1000

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Text:     m.Text,
			Metadata: m.Metadata,
			Distance: m.Distance,
		}
	}

	return &RetrieveResponse{
		Query:     query,
		K:         k,
		LatencyMs: math.Round(latency*100) / 100,
		Results:   results,
	}, nil
}

// Health reports index liveness: collection name and document count.
// No side effects.
func (s *Service) Health(ctx context.Context) (*HealthResponse, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	return &HealthResponse{
		Status:     "ok",
		Collection: s.index.CollectionName(),
		Count:      count,
	}, nil
}
