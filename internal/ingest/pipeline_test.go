package ingest

import (
	"context"
	"hash/fnv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetcrest/salon-rag/internal/kb"
	"github.com/velvetcrest/salon-rag/internal/storage"
)

// fakeStore records index mutations in memory.
type fakeStore struct {
	docs      map[string]storage.Document
	resets    int
	upserts   int
	preResets int // upserts that happened before the first reset
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]storage.Document)}
}

func (f *fakeStore) Reset(ctx context.Context) error {
	f.resets++
	f.docs = make(map[string]storage.Document)
	return nil
}

func (f *fakeStore) Upsert(ctx context.Context, docs []storage.Document) error {
	f.upserts++
	if f.resets == 0 {
		f.preResets++
	}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	return nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.docs), nil
}

// fakeEmbedder derives a deterministic vector from the text hash.
type fakeEmbedder struct{ calls int }

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		h := fnv.New32a()
		h.Write([]byte(t))
		v := make([]float32, storage.VectorDimension)
		v[int(h.Sum32())%len(v)] = 1
		out[i] = v
	}
	return out, nil
}

func testFiles() DataFiles {
	return DataFiles{
		Services: filepath.Join("testdata", "services.csv"),
		Aliases:  filepath.Join("testdata", "aliases.csv"),
		FAQ:      filepath.Join("testdata", "faq.csv"),
		Policies: filepath.Join("testdata", "policies.csv"),
		Hours:    filepath.Join("testdata", "hours.csv"),
		Staff:    filepath.Join("testdata", "staff.csv"),
	}
}

func TestRun_FullRebuild(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeEmbedder{}, nil)

	result, err := pipeline.Run(context.Background(), testFiles())
	require.NoError(t, err)

	// 2 services + 1 faq + 1 policy + 2 hours + 1 staff
	assert.Equal(t, 7, result.Total)
	assert.Equal(t, []SourceCount{
		{Source: "services", Count: 2},
		{Source: "faq", Count: 1},
		{Source: "policies", Count: 1},
		{Source: "hours", Count: 2},
		{Source: "staff", Count: 1},
	}, result.Sources)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.Total, count, "count after reset+ingest equals total rows")

	assert.Equal(t, 1, store.resets)
	assert.Zero(t, store.preResets, "no upsert may precede the reset")
}

func TestRun_DocumentContent(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeEmbedder{}, nil)

	_, err := pipeline.Run(context.Background(), testFiles())
	require.NoError(t, err)

	svc0 := store.docs["svc_0"]
	assert.Equal(t, "[SERVICE]\nHaircut RM30, 30 min", svc0.Text)

	svc1 := store.docs["svc_1"]
	assert.Equal(t, "[SERVICE]\nPerm service. Price RM80, duration 60 minutes. \nAlso known as: curly perm, perm rambut", svc1.Text)

	faq := store.docs["faq_hours"]
	assert.Equal(t, "[FAQ]\nQ: When are you open?\nA: 9am-9pm", faq.Text)
	assert.Equal(t, map[string]string{"type": "faq", "faq_id": "faq_hours", "category": "general"}, faq.Metadata)

	for id, doc := range store.docs {
		assert.Len(t, doc.Embedding, storage.VectorDimension, "doc %s", id)
	}
}

func TestRun_MalformedSourceAbortsBeforeReset(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeEmbedder{}, nil)

	files := testFiles()
	files.Services = filepath.Join("testdata", "bad_services.csv")

	_, err := pipeline.Run(context.Background(), files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes")
	assert.Zero(t, store.resets, "a build failure must leave the old index untouched")
	assert.Zero(t, store.upserts)
}

func TestRun_MissingFileFails(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeEmbedder{}, nil)

	files := testFiles()
	files.FAQ = filepath.Join("testdata", "nope.csv")

	_, err := pipeline.Run(context.Background(), files)
	require.Error(t, err)
	assert.Zero(t, store.resets)
}

func docsWithIDs(ids ...string) []kb.Document {
	docs := make([]kb.Document, len(ids))
	for i, id := range ids {
		docs[i] = kb.Document{ID: id}
	}
	return docs
}

func TestCheckIDUniqueness(t *testing.T) {
	err := checkIDUniqueness([]builtSource{
		{name: "services", docs: docsWithIDs("svc_0", "svc_1")},
		{name: "faq", docs: docsWithIDs("svc_0")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrDuplicateID)
}
