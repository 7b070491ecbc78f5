package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// pointNamespace seeds deterministic point ids. Qdrant point ids must
// be UUIDs, so natural document ids ("svc_0", "faq_opening_hours") map
// through uuid.NewSHA1; the natural id stays in the payload. The
// mapping is stable across runs, which makes Upsert a true overwrite
// for an unchanged id.
var pointNamespace = uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8")

// QdrantStore wraps the Qdrant client as the knowledge-base index:
// cosine distance is fixed once at collection creation and never
// overridden per query.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a Qdrant-backed index store. It performs a
// health check with retry on startup and fails fast if Qdrant is
// unreachable.
func NewQdrantStore(host string, port int, collection string) (*QdrantStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	store := &QdrantStore{
		client:     client,
		collection: collection,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return store, nil
}

// healthCheckWithRetry performs health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantStore) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check against Qdrant.
func (s *QdrantStore) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// CollectionName returns the collection this store reads and writes.
func (s *QdrantStore) CollectionName() string {
	return s.collection
}

// EnsureCollection creates the collection if it does not exist, with
// cosine distance configured at creation time. Idempotent.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, name := range collections {
		if name == s.collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Reset destroys all documents by deleting and recreating the
// collection. Used at the start of a full ingestion run so no stale
// records survive a schema change.
func (s *QdrantStore) Reset(ctx context.Context) error {
	err := s.client.DeleteCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return s.EnsureCollection(ctx)
}

// Count returns the exact number of stored documents.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int(n), nil
}

// Upsert inserts or overwrites documents by id. Batched in groups of
// 100 with exponential backoff retry per batch.
func (s *QdrantStore) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	for i, doc := range docs {
		if len(doc.Embedding) != VectorDimension {
			return fmt.Errorf("%w: document %d (%s) has %d dimensions, expected %d",
				ErrDimensionMismatch, i, doc.ID, len(doc.Embedding), VectorDimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))
		batch := docs[i:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, doc := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(PointID(doc.ID)),
				Vectors: qdrant.NewVectors(doc.Embedding...),
				Payload: qdrant.NewValueMap(payloadFor(doc)),
			}
		}

		if err := s.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// upsertWithRetry performs upsert with exponential backoff.
func (s *QdrantStore) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// Query returns the k nearest documents by cosine distance, closest
// first. Qdrant scores cosine as similarity, so distance = 1 - score.
// Fewer than k stored documents returns all of them.
func (s *QdrantStore) Query(ctx context.Context, embedding []float32, k int) ([]QueryResult, error) {
	if len(embedding) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), VectorDimension)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	results := make([]QueryResult, 0, len(points))
	for _, p := range points {
		results = append(results, QueryResult{
			Text:     p.Payload["text"].GetStringValue(),
			Metadata: metadataFrom(p.Payload),
			Distance: 1 - float64(p.Score),
		})
	}
	return results, nil
}

// Close closes the Qdrant client connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// PointID derives the stable Qdrant point UUID for a document id.
func PointID(docID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(docID)).String()
}

func payloadFor(doc Document) map[string]any {
	meta := make(map[string]any, len(doc.Metadata))
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	return map[string]any{
		"doc_id":   doc.ID,
		"text":     doc.Text,
		"metadata": meta,
	}
}

func metadataFrom(payload map[string]*qdrant.Value) map[string]string {
	meta := make(map[string]string)
	if v, ok := payload["metadata"]; ok && v.GetStructValue() != nil {
		for k, field := range v.GetStructValue().Fields {
			meta[k] = field.GetStringValue()
		}
	}
	return meta
}
