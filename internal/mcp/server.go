package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/velvetcrest/salon-rag/internal/retrieval"
)

// Retriever is the retrieval surface the tools call into.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (*retrieval.RetrieveResponse, error)
	Health(ctx context.Context) (*retrieval.HealthResponse, error)
}

// Server wraps the MCP server with its retrieval dependency.
type Server struct {
	server *mcp.Server
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(svc Retriever) *Server {
	impl := &mcp.Implementation{
		Name:    "salon-kb-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_kb",
		Description: "Search the salon knowledge base (services, FAQ, policies, hours, staff) semantically. Returns the closest documents with metadata and cosine distance.",
	}, makeSearchHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "kb_status",
		Description: "Report knowledge-base index status: collection name and document count.",
	}, makeStatusHandler(svc))

	return &Server{server: server}
}

func makeSearchHandler(svc Retriever) func(
	context.Context, *mcp.CallToolRequest, SearchKBInput,
) (*mcp.CallToolResult, SearchKBOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchKBInput) (
		*mcp.CallToolResult, SearchKBOutput, error,
	) {
		resp, err := svc.Retrieve(ctx, input.Query, input.TopK)
		if err != nil {
			return nil, SearchKBOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := make([]SearchKBResult, len(resp.Results))
		for i, r := range resp.Results {
			results[i] = SearchKBResult{
				Text:     r.Text,
				Metadata: r.Metadata,
				Distance: r.Distance,
			}
		}
		return nil, SearchKBOutput{Query: resp.Query, Results: results}, nil
	}
}

func makeStatusHandler(svc Retriever) func(
	context.Context, *mcp.CallToolRequest, KBStatusInput,
) (*mcp.CallToolResult, KBStatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input KBStatusInput) (
		*mcp.CallToolResult, KBStatusOutput, error,
	) {
		health, err := svc.Health(ctx)
		if err != nil {
			return nil, KBStatusOutput{}, fmt.Errorf("status failed: %w", err)
		}
		return nil, KBStatusOutput{
			Status:     health.Status,
			Collection: health.Collection,
			Count:      health.Count,
		}, nil
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
