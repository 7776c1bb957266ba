package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/store"
	"github.com/bettersg/checkmate-agent/tool"
)

// Capturer takes a screenshot of a web page, returning the image bytes and
// their mime type.
type Capturer interface {
	Capture(ctx context.Context, url string) (data []byte, mimeType string, err error)
}

// HTTPCapturer calls an external screenshot service. The service accepts
// POST {"url": ...} and responds with the raw image; the Content-Type header
// names the format.
type HTTPCapturer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPCapturer constructs a capturer against the given endpoint URL.
func NewHTTPCapturer(endpoint string, optFns ...func(c *http.Client)) *HTTPCapturer {
	client := &http.Client{Timeout: 60 * time.Second}
	for _, fn := range optFns {
		fn(client)
	}
	return &HTTPCapturer{endpoint: endpoint, client: client}
}

// Capture posts the target url and returns the image bytes.
func (c *HTTPCapturer) Capture(ctx context.Context, url string) ([]byte, string, error) {
	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("screenshot request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("screenshot service returned status %d", resp.StatusCode)
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}
	return data, mimeType, nil
}

// NewScreenshotTool wraps a Capturer as the screenshot tool. The captured
// image is persisted in the artifact store and the tool returns a
// core.FilePartFile pointing at it, which the dispatcher expands into an
// acknowledgment plus a media part.
func NewScreenshotTool(capturer Capturer, artifacts *store.ArtifactStore) *tool.FunctionTool {
	return tool.NewFunctionTool(
		ScreenshotToolName,
		"Takes a screenshot of the given URL, useful for when the content of a link matters.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL of the website to take a screenshot of.",
				},
			},
			"required": []string{"url"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			url, _ := args["url"].(string)
			data, mimeType, err := capturer.Capture(ctx, url)
			if err != nil {
				return nil, fmt.Errorf("an error occurred taking the screenshot: %w", err)
			}
			id := artifacts.Save(data, mimeType)
			return core.FilePartFile{URI: "/artifacts/" + id, MimeType: mimeType}, nil
		},
	)
}
