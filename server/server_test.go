package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	checkmate "github.com/bettersg/checkmate-agent"
	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/model"
	"github.com/bettersg/checkmate-agent/store"
	"github.com/bettersg/checkmate-agent/tool"
	"github.com/bettersg/checkmate-agent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	llm       *model.MockModel
	checks    *store.CheckStore
	artifacts *store.ArtifactStore
	server    *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	llm := model.NewMockModel("scripted")
	artifacts := store.NewArtifactStore()
	checks := store.NewCheckStore()

	registry := tool.MustNewRegistry(
		tools.NewInferIntentTool(),
		tools.NewPlanNextStepTool(),
		tools.NewSearchGoogleTool(tools.NewHTTPSearcher("http://unused.example")),
		tools.NewScreenshotTool(tools.NewHTTPCapturer("http://unused.example"), artifacts),
		tools.NewSubmitReportTool(tools.NewReviewer(llm)),
	)

	checker := checkmate.NewChecker(llm, registry, tools.NewSummariser(llm))
	return &fixture{
		llm:       llm,
		checks:    checks,
		artifacts: artifacts,
		server:    New(checker, checks, artifacts),
	}
}

func postNote(t *testing.T, f *fixture, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v2/getCommunityNote", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCommunityNote_HappyPath(t *testing.T) {
	f := newFixture(t)

	// Scripted run: intent turn, then submission; the reviewer passes the
	// report and the summariser produces the note.
	f.llm.EnqueueFunctionCalls(core.FunctionCall{
		Name:      tools.InferIntentToolName,
		Arguments: `{"reasoning":"prize plus link","intent":"check for scam"}`,
	})
	f.llm.EnqueueFunctionCalls(core.FunctionCall{
		Name:      tools.SubmitReportToolName,
		Arguments: `{"report":"likely phishing scam","sources":[],"isControversial":false,"isVideo":false,"isAccessBlocked":false}`,
	})
	f.llm.EnqueueText(`{"feedback":"","passedReview":true}`)
	f.llm.EnqueueText(`{"community_note":"🚨 This is a scam. Do not click the link."}`)

	rec := postNote(t, f, `{"text":"Win a free iPhone by clicking this link!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	requestID := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, requestID)

	var resp checkmate.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "likely phishing scam", resp.Report)
	assert.Equal(t, "🚨 This is a scam. Do not click the link.", resp.CommunityNote)
	assert.NotEmpty(t, resp.Trace)

	// The completed check is retrievable by its request id.
	req := httptest.NewRequest(http.MethodGet, "/v2/checks/"+requestID, nil)
	rec2 := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.True(t, strings.Contains(rec2.Body.String(), "likely phishing scam"))
}

func TestCommunityNote_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	rec := postNote(t, f, `{"text":"a","image_url":"https://example.com/i.jpg"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")

	rec = postNote(t, f, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postNote(t, f, `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestCommunityNote_FailedRunStillOK(t *testing.T) {
	f := newFixture(t)
	// No scripted responses: the first model call fails and the agent
	// converts it into an unsuccessful result, not an HTTP error.
	rec := postNote(t, f, `{"text":"check this"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkmate.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
}

func TestGetCheck_NotFound(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/v2/checks/nope", nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetArtifact(t *testing.T) {
	f := newFixture(t)
	id := f.artifacts.Save([]byte("png-bytes"), "image/png")

	req := httptest.NewRequest(http.MethodGet, "/artifacts/"+id, nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/artifacts/missing", nil)
	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
