// Package mcp exposes the salon knowledge base to MCP clients as a
// secondary interface next to the HTTP API.
package mcp

// SearchKBInput defines the input parameters for the search_kb tool.
type SearchKBInput struct {
	// Query is the user question to match against the knowledge base.
	Query string `json:"query" jsonschema:"required,description=The user question to search the salon knowledge base with"`
	// TopK is the number of documents to return.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=3,description=Number of documents to return"`
}

// SearchKBOutput contains the retrieved documents.
type SearchKBOutput struct {
	// Query echoes the search query.
	Query string `json:"query"`
	// Results is the ordered result list, closest first.
	Results []SearchKBResult `json:"results"`
}

// SearchKBResult is a single retrieved document.
type SearchKBResult struct {
	// Text is the document content.
	Text string `json:"text"`
	// Metadata carries the per-source display fields.
	Metadata map[string]string `json:"metadata"`
	// Distance is the cosine distance to the query, lower is closer.
	Distance float64 `json:"distance"`
}

// KBStatusInput defines the input for the kb_status tool.
// The tool takes no parameters.
type KBStatusInput struct{}

// KBStatusOutput reports index liveness.
type KBStatusOutput struct {
	// Status is "ok" when the index answers.
	Status string `json:"status"`
	// Collection is the index collection name.
	Collection string `json:"collection"`
	// Count is the stored document count.
	Count int `json:"count"`
}
