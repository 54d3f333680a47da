package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for grimoire resources.
const uriScheme = "grimoire://"

// storeURI addresses the vector store summary.
const storeURI = uriScheme + "store"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         storeURI,
		Name:        "store",
		Description: "Location, size and embedding dimension of the vector store",
		MIMEType:    "application/json",
	}, s.handleStoreResource)
}

// storeInfo is the JSON body of the store resource.
type storeInfo struct {
	Location  string `json:"location"`
	Documents int    `json:"documents"`
	Dimension int    `json:"dimension"`
}

// handleStoreResource reports store statistics.
func (s *Server) handleStoreResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading store stats: %w", err)
	}

	data, err := json.MarshalIndent(storeInfo{
		Location:  stats.Location,
		Documents: stats.Documents,
		Dimension: stats.Dimension,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling store stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
