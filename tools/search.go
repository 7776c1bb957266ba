package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bettersg/checkmate-agent/tool"
)

// Searcher executes a web search and returns the raw results document the
// model will read.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// HTTPSearcher calls an external search service over HTTP. The service
// accepts POST {"q": ...} and responds with a JSON results document.
type HTTPSearcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSearcher constructs a searcher against the given endpoint URL.
func NewHTTPSearcher(endpoint string, optFns ...func(c *http.Client)) *HTTPSearcher {
	client := &http.Client{Timeout: 30 * time.Second}
	for _, fn := range optFns {
		fn(client)
	}
	return &HTTPSearcher{endpoint: endpoint, client: client}
}

// Search posts the query and returns the response body verbatim.
func (s *HTTPSearcher) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search service returned status %d: %s", resp.StatusCode, data)
	}
	return string(data), nil
}

// NewSearchGoogleTool wraps a Searcher as the search tool the model calls to
// check claims against the web.
func NewSearchGoogleTool(searcher Searcher) *tool.FunctionTool {
	return tool.NewFunctionTool(
		SearchToolName,
		"Searches Google for the given query and returns the results.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"q": map[string]any{
					"type":        "string",
					"description": "The search query.",
				},
			},
			"required": []string{"q"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["q"].(string)
			return searcher.Search(ctx, query)
		},
	)
}
