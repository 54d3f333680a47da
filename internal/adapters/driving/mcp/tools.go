package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar notes for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default search.top_k)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// IndexInput is the input schema for the index tool.
type IndexInput struct {
	Text  string `json:"text" jsonschema:"the text to chunk, embed and store"`
	URL   string `json:"url,omitempty" jsonschema:"optional origin of the text, used to derive a stable document id"`
	Title string `json:"title,omitempty" jsonschema:"optional human readable title"`
}

// IndexOutput is the output schema for the index tool.
type IndexOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the stored note chunks most similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index",
		Description: "Add a piece of text to the note store so it can be searched",
	}, s.handleIndex)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			Text:     results[i].Text,
			Score:    results[i].Score,
			Position: results[i].Position,
		}
	}

	return nil, output, nil
}

// handleIndex handles the index tool invocation.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if s.ports.Index == nil {
		return nil, IndexOutput{}, ErrIndexingDisabled
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, IndexOutput{}, domain.ErrInvalidInput
	}

	doc := &domain.Document{
		URL:     input.URL,
		Title:   input.Title,
		Content: input.Text,
	}
	chunks, err := s.ports.Index.IndexDocument(ctx, doc)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	return nil, IndexOutput{DocumentID: doc.ID, Chunks: len(chunks)}, nil
}
