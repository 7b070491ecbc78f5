// Package ingest orchestrates the full index rebuild: read the salon
// CSV sources, build documents, embed them and upsert into the index.
// Rebuilds are all-or-nothing: every source is read and built before
// the index reset, so a malformed input file aborts the run with the
// old index intact.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/velvetcrest/salon-rag/internal/kb"
	"github.com/velvetcrest/salon-rag/internal/storage"
)

// IndexStore is the slice of the index the pipeline writes to.
type IndexStore interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, docs []storage.Document) error
	Count(ctx context.Context) (int, error)
}

// Embedder batch-encodes document texts.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// DataFiles names the fixed set of tabular input files.
type DataFiles struct {
	Services string
	Aliases  string // optional; "" disables alias merging
	FAQ      string
	Policies string
	Hours    string
	Staff    string
}

// SourceCount reports how many documents one source contributed.
type SourceCount struct {
	Source string
	Count  int
}

// Result contains statistics about an ingestion run.
type Result struct {
	Sources  []SourceCount
	Total    int
	Duration time.Duration
}

// Pipeline rebuilds the knowledge-base index from CSV sources.
type Pipeline struct {
	store    IndexStore
	embedder Embedder
	logger   *slog.Logger
}

// NewPipeline creates an ingestion pipeline with the given components.
func NewPipeline(store IndexStore, embedder Embedder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Run performs a full rebuild: build all documents, verify id
// uniqueness, reset the index, then embed and upsert source by source.
func (p *Pipeline) Run(ctx context.Context, files DataFiles) (*Result, error) {
	start := time.Now()

	sources, err := p.buildAll(files)
	if err != nil {
		return nil, err
	}

	if err := checkIDUniqueness(sources); err != nil {
		return nil, err
	}

	p.logger.Info("Resetting index")
	if err := p.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset index: %w", err)
	}

	result := &Result{}
	for _, src := range sources {
		if err := p.embedAndStore(ctx, src.docs); err != nil {
			return nil, fmt.Errorf("ingest %s: %w", src.name, err)
		}
		result.Sources = append(result.Sources, SourceCount{Source: src.name, Count: len(src.docs)})
		result.Total += len(src.docs)
		p.logger.Info("Ingested source", "source", src.name, "count", len(src.docs))
	}

	result.Duration = time.Since(start)
	p.logger.Info("Ingestion complete", "total", result.Total, "duration", result.Duration)
	return result, nil
}

type builtSource struct {
	name string
	docs []kb.Document
}

// buildAll reads and builds every source before any index mutation.
func (p *Pipeline) buildAll(files DataFiles) ([]builtSource, error) {
	serviceRows, err := kb.ReadRows(files.Services)
	if err != nil {
		return nil, err
	}
	var aliasRows []kb.Row
	if files.Aliases != "" {
		if aliasRows, err = kb.ReadRows(files.Aliases); err != nil {
			return nil, err
		}
	}
	services, err := kb.BuildServices(serviceRows, aliasRows)
	if err != nil {
		return nil, err
	}

	faqRows, err := kb.ReadRows(files.FAQ)
	if err != nil {
		return nil, err
	}
	faq, err := kb.BuildFAQ(faqRows)
	if err != nil {
		return nil, err
	}

	policyRows, err := kb.ReadRows(files.Policies)
	if err != nil {
		return nil, err
	}
	policies, err := kb.BuildPolicies(policyRows)
	if err != nil {
		return nil, err
	}

	hourRows, err := kb.ReadRows(files.Hours)
	if err != nil {
		return nil, err
	}
	staffRows, err := kb.ReadRows(files.Staff)
	if err != nil {
		return nil, err
	}

	return []builtSource{
		{kb.SourceServices, services},
		{kb.SourceFAQ, faq},
		{kb.SourcePolicies, policies},
		{kb.SourceHours, kb.BuildGeneric(kb.SourceHours, hourRows)},
		{kb.SourceStaff, kb.BuildGeneric(kb.SourceStaff, staffRows)},
	}, nil
}

func checkIDUniqueness(sources []builtSource) error {
	seen := make(map[string]string)
	for _, src := range sources {
		for _, doc := range src.docs {
			if prev, ok := seen[doc.ID]; ok {
				return fmt.Errorf("%w: %q appears in %s and %s", storage.ErrDuplicateID, doc.ID, prev, src.name)
			}
			seen[doc.ID] = src.name
		}
	}
	return nil
}

func (p *Pipeline) embedAndStore(ctx context.Context, docs []kb.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embeddings: %w", err)
	}

	stored := make([]storage.Document, len(docs))
	for i, doc := range docs {
		stored[i] = storage.Document{
			ID:        doc.ID,
			Text:      doc.Text,
			Metadata:  doc.Metadata,
			Embedding: vectors[i],
		}
	}

	return p.store.Upsert(ctx, stored)
}
