package retrieval

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetcrest/salon-rag/internal/storage"
)

type stubIndex struct {
	results []storage.QueryResult
	count   int
	err     error
	lastK   int
}

func (s *stubIndex) Query(ctx context.Context, embedding []float32, k int) ([]storage.QueryResult, error) {
	s.lastK = k
	if s.err != nil {
		return nil, s.err
	}
	if k > len(s.results) {
		k = len(s.results)
	}
	return s.results[:k], nil
}

func (s *stubIndex) Count(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

func (s *stubIndex) CollectionName() string { return "salon_kb" }

type stubEmbedder struct{ err error }

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return make([]float32, storage.VectorDimension), nil
}

func sortedResults() []storage.QueryResult {
	return []storage.QueryResult{
		{Text: "[FAQ]\nQ: When are you open?\nA: 9am-9pm", Metadata: map[string]string{"type": "faq"}, Distance: 0.12},
		{Text: "[HOURS]\nday: Monday", Metadata: map[string]string{"day": "Monday"}, Distance: 0.31},
		{Text: "[SERVICE]\nHaircut", Metadata: map[string]string{"name": "Haircut"}, Distance: 0.55},
	}
}

func TestRetrieve_ShapesResponse(t *testing.T) {
	index := &stubIndex{results: sortedResults()}
	svc := NewService(&stubEmbedder{}, index)

	resp, err := svc.Retrieve(context.Background(), "opening hours", 2)
	require.NoError(t, err)

	assert.Equal(t, "opening hours", resp.Query)
	assert.Equal(t, 2, resp.K)
	assert.Len(t, resp.Results, 2)
	assert.GreaterOrEqual(t, resp.LatencyMs, 0.0)

	assert.Equal(t, "[FAQ]\nQ: When are you open?\nA: 9am-9pm", resp.Results[0].Text)
	assert.InDelta(t, 0.12, resp.Results[0].Distance, 1e-9)

	assert.True(t, sort.SliceIsSorted(resp.Results, func(i, j int) bool {
		return resp.Results[i].Distance < resp.Results[j].Distance
	}), "results ordered by non-decreasing distance")
}

func TestRetrieve_DefaultK(t *testing.T) {
	index := &stubIndex{results: sortedResults()}
	svc := NewService(&stubEmbedder{}, index)

	resp, err := svc.Retrieve(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultK, resp.K)
	assert.Equal(t, DefaultK, index.lastK)
}

func TestRetrieve_FewerDocumentsThanK(t *testing.T) {
	index := &stubIndex{results: sortedResults()[:1]}
	svc := NewService(&stubEmbedder{}, index)

	resp, err := svc.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestRetrieve_EmbedErrorSurfaces(t *testing.T) {
	svc := NewService(&stubEmbedder{err: errors.New("boom")}, &stubIndex{})

	_, err := svc.Retrieve(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestRetrieve_IndexErrorSurfaces(t *testing.T) {
	svc := NewService(&stubEmbedder{}, &stubIndex{err: errors.New("down")})

	_, err := svc.Retrieve(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query index")
}

func TestHealth(t *testing.T) {
	svc := NewService(&stubEmbedder{}, &stubIndex{count: 42})

	resp, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &HealthResponse{Status: "ok", Collection: "salon_kb", Count: 42}, resp)
}
