package storage

// Document is an embedded knowledge-base entry as stored in Qdrant.
type Document struct {
	ID        string            // natural id, e.g. "svc_0", "faq_opening_hours"
	Text      string            // content returned verbatim to callers
	Metadata  map[string]string // per-source display/filter fields
	Embedding []float32         // 1536-dim vector (text-embedding-3-small)
}

// QueryResult is a single nearest-neighbor match.
type QueryResult struct {
	Text     string
	Metadata map[string]string
	Distance float64 // cosine distance, lower is closer
}

// DefaultCollection is the knowledge-base collection name.
const DefaultCollection = "salon_kb"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
