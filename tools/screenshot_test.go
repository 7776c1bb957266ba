package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	data []byte
	mime string
	err  error
}

func (f *fakeCapturer) Capture(_ context.Context, url string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, f.mime, nil
}

func TestScreenshotTool_SavesArtifact(t *testing.T) {
	artifacts := store.NewArtifactStore()
	capture := &fakeCapturer{data: []byte("png-bytes"), mime: "image/png"}

	shot := NewScreenshotTool(capture, artifacts)
	result, err := shot.Call(context.Background(), map[string]any{"url": "https://example.com"})
	require.NoError(t, err)

	file, ok := result.(core.FilePartFile)
	require.True(t, ok)
	assert.Equal(t, "image/png", file.MimeType)
	require.True(t, strings.HasPrefix(file.URI, "/artifacts/"))

	id := strings.TrimPrefix(file.URI, "/artifacts/")
	stored, err := artifacts.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored.Data)
	assert.Equal(t, "image/png", stored.MimeType)
}

func TestScreenshotTool_CaptureFailure(t *testing.T) {
	shot := NewScreenshotTool(&fakeCapturer{err: errors.New("navigation timeout")}, store.NewArtifactStore())

	_, err := shot.Call(context.Background(), map[string]any{"url": "https://example.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "an error occurred taking the screenshot")
	assert.Contains(t, err.Error(), "navigation timeout")
}

func TestHTTPCapturer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	data, mime, err := NewHTTPCapturer(srv.URL).Capture(context.Background(), "https://target.example")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, "image/jpeg", mime)
}

func TestHTTPCapturer_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := NewHTTPCapturer(srv.URL).Capture(context.Background(), "https://target.example")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestHTTPSearcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"items":[{"title":"known scam"}]}`))
	}))
	defer srv.Close()

	results, err := NewHTTPSearcher(srv.URL).Search(context.Background(), "free iphone")
	require.NoError(t, err)
	assert.Contains(t, results, "known scam")
}

func TestSearchGoogleTool_RequiresQuery(t *testing.T) {
	search := NewSearchGoogleTool(NewHTTPSearcher("http://unused.example"))
	_, err := search.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}
