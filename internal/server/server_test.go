package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/db"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/generation"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/quota"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/scoring"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/server/middleware"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/server/ratelimit"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

const sampleDraft = "# 홈트 루틴 5가지 방법\n\n홈트를 시작하는 여러분을 위한 안내입니다.\n\n## 홈트 준비\n\n- 매트\n- 물\n\n지금 바로 시작하세요!"

// mockGenerator scores a fixed draft for every requested type
type mockGenerator struct {
	err error

	mu       sync.Mutex
	requests []*types.GenerateRequest
}

func (m *mockGenerator) GenerateEach(ctx context.Context, req *types.GenerateRequest, onResult func(*types.GeneratedContent)) (map[types.ContentType]*types.GeneratedContent, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	contentTypes := req.Types
	if len(contentTypes) == 0 {
		contentTypes = []types.ContentType{types.ContentBlog}
	}
	results := make(map[types.ContentType]*types.GeneratedContent)
	for _, ct := range contentTypes {
		report, err := scoring.Evaluate(ctx, scoring.Input{
			Content:     sampleDraft,
			Title:       "홈트 루틴 5가지 방법",
			Keyword:     req.Keyword,
			ContentType: ct,
			SkipSEO:     !ct.HasSEO(),
		})
		if err != nil {
			return nil, err
		}
		gc := &types.GeneratedContent{Type: ct, Title: "홈트 루틴 5가지 방법", Content: sampleDraft, Report: report}
		results[ct] = gc
		if onResult != nil {
			onResult(gc)
		}
	}
	return results, nil
}

// mockHistory keeps generations in memory
type mockHistory struct {
	mu    sync.Mutex
	saved []db.Generation
}

func (m *mockHistory) SaveGeneration(_ context.Context, in *db.GenerationInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.saved = append(m.saved, db.Generation{
		ID:           id,
		UserKey:      in.UserKey,
		Keyword:      in.Keyword,
		ContentType:  in.ContentType,
		Title:        in.Title,
		QualityScore: in.QualityScore,
		QualityGrade: in.QualityGrade,
		CreatedAt:    time.Now(),
	})
	return id, nil
}

func (m *mockHistory) ListGenerations(_ context.Context, userKey string, limit int) ([]db.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Generation
	for _, g := range m.saved {
		if g.UserKey == userKey && len(out) < limit {
			out = append(out, g)
		}
	}
	return out, nil
}

type staticTokens map[string]string

func (s staticTokens) ValidateToken(token string) (middleware.UserIDGetter, error) {
	userID, ok := s[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &Claims{UserID: userID}, nil
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Generator == nil {
		deps.Generator = &mockGenerator{}
	}
	if deps.RateLimit == nil {
		deps.RateLimit = &ratelimit.Config{Enabled: false}
	}
	if deps.PoweredBy == "" {
		deps.PoweredBy = "gemini (mock-model)"
	}
	s := NewWithDeps(0, deps)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := do(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := do(t, s.Handler(), http.MethodOptions, "/generate", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestGenerate_Success(t *testing.T) {
	gen := &mockGenerator{}
	s := newTestServer(t, Deps{Generator: gen})

	w := do(t, s.Handler(), http.MethodPost, "/generate", map[string]any{
		"keyword": "홈트",
		"types":   []string{"blog", "instagram"},
		"tone":    "friendly",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gemini (mock-model)", resp.PoweredBy)
	assert.Equal(t, quota.DefaultDailyLimit-1, resp.Remaining)
	require.Contains(t, resp.Results, types.ContentBlog)
	require.Contains(t, resp.Results, types.ContentInstagram)
	assert.NotNil(t, resp.Results[types.ContentBlog].Report.SEO)
	assert.Nil(t, resp.Results[types.ContentInstagram].Report.SEO)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "friendly", gen.requests[0].Tone)
}

func TestGenerate_ValidationErrors(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", "{not json"},
		{"missing keyword", map[string]any{"types": []string{"blog"}}},
		{"blank keyword", map[string]any{"keyword": "   "}},
		{"unknown type", map[string]any{"keyword": "홈트", "types": []string{"tiktok"}}},
		{"unknown tone", map[string]any{"keyword": "홈트", "tone": "angry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/generate", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	// Rejected requests do not use the allowance
	w := do(t, s.Handler(), http.MethodGet, "/usage", nil, nil)
	var d quota.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, quota.DefaultDailyLimit, d.Remaining)
}

func TestGenerate_DailyQuota(t *testing.T) {
	s := newTestServer(t, Deps{})
	body := map[string]any{"keyword": "홈트"}

	for i := 0; i < quota.DefaultDailyLimit; i++ {
		w := do(t, s.Handler(), http.MethodPost, "/generate", body, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, s.Handler(), http.MethodPost, "/generate", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "quota_exceeded", resp["error"])
	assert.EqualValues(t, quota.DefaultDailyLimit, resp["limit"])
	assert.EqualValues(t, 0, resp["remaining"])
}

func TestGenerate_QuotaPerUser(t *testing.T) {
	s := newTestServer(t, Deps{
		Quota:  quota.NewLimiter(quota.NewMemoryStore(), 1),
		Tokens: staticTokens{"alice-token": "alice", "bob-token": "bob"},
	})
	body := map[string]any{"keyword": "홈트"}

	w := do(t, s.Handler(), http.MethodPost, "/generate", body, map[string]string{"Authorization": "Bearer alice-token"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, s.Handler(), http.MethodPost, "/generate", body, map[string]string{"Authorization": "Bearer alice-token"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Same address, different user
	w = do(t, s.Handler(), http.MethodPost, "/generate", body, map[string]string{"Authorization": "Bearer bob-token"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Anonymous callers are counted by address
	w = do(t, s.Handler(), http.MethodPost, "/generate", body, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s.Handler(), http.MethodPost, "/generate", body, map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerate_ProviderFailureReleasesQuota(t *testing.T) {
	gen := &mockGenerator{err: &generation.ProviderError{ContentType: types.ContentBlog, Message: "generation failed", Cause: errors.New("503 from upstream")}}
	s := newTestServer(t, Deps{Generator: gen})

	w := do(t, s.Handler(), http.MethodPost, "/generate", map[string]any{"keyword": "홈트"}, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "provider error")

	w = do(t, s.Handler(), http.MethodGet, "/usage", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d quota.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, quota.DefaultDailyLimit, d.Remaining)
	assert.Equal(t, 0, d.Used)
}

func TestGenerate_InternalErrorIsMasked(t *testing.T) {
	s := newTestServer(t, Deps{Generator: &mockGenerator{err: errors.New("db password leaked")}})

	w := do(t, s.Handler(), http.MethodPost, "/generate", map[string]any{"keyword": "홈트"}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGenerate_SavesHistory(t *testing.T) {
	history := &mockHistory{}
	s := newTestServer(t, Deps{
		History: history,
		Tokens:  staticTokens{"alice-token": "alice"},
	})
	auth := map[string]string{"Authorization": "Bearer alice-token"}

	w := do(t, s.Handler(), http.MethodPost, "/generate", map[string]any{"keyword": "홈트", "types": []string{"blog", "email"}}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, history.saved, 2)
	assert.Equal(t, "user:alice", history.saved[0].UserKey)
	assert.NotEmpty(t, history.saved[0].QualityGrade)

	w = do(t, s.Handler(), http.MethodGet, "/generations?limit=1", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Generations []db.Generation `json:"generations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Generations, 1)
	assert.Equal(t, "홈트", resp.Generations[0].Keyword)
}

func TestListGenerations_Errors(t *testing.T) {
	tokens := staticTokens{"alice-token": "alice"}
	auth := map[string]string{"Authorization": "Bearer alice-token"}

	withHistory := newTestServer(t, Deps{History: &mockHistory{}, Tokens: tokens})
	noHistory := newTestServer(t, Deps{Tokens: tokens})

	tests := []struct {
		name   string
		server *Server
		path   string
		header map[string]string
		want   int
	}{
		{"anonymous", withHistory, "/generations", nil, http.StatusUnauthorized},
		{"bad limit", withHistory, "/generations?limit=0", auth, http.StatusBadRequest},
		{"non-numeric limit", withHistory, "/generations?limit=ten", auth, http.StatusBadRequest},
		{"empty history", withHistory, "/generations", auth, http.StatusOK},
		{"history disabled", noHistory, "/generations", auth, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, tt.server.Handler(), http.MethodGet, tt.path, nil, tt.header)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestGenerateStream(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := do(t, s.Handler(), http.MethodPost, "/generate/stream", map[string]any{
		"keyword": "홈트",
		"types":   []string{"blog", "youtube"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: result\n"))
	assert.Contains(t, body, "event: complete\n")
	assert.Contains(t, body, `"remaining":2`)
	assert.Contains(t, body, `"count":2`)
}

func TestGenerateStream_ProviderFailure(t *testing.T) {
	gen := &mockGenerator{err: &generation.ProviderError{ContentType: types.ContentBlog, Message: "empty response"}}
	s := newTestServer(t, Deps{Generator: gen})

	w := do(t, s.Handler(), http.MethodPost, "/generate/stream", map[string]any{"keyword": "홈트"}, nil)
	body := w.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"status":502`)
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := do(t, s.Handler(), http.MethodPost, "/analyze", map[string]any{
		"content": sampleDraft,
		"title":   "홈트 루틴 5가지 방법",
		"keyword": "홈트",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report types.QualityReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.NotNil(t, report.SEO)
	require.NotNil(t, report.FactCheck)
	require.NotNil(t, report.Performance)
	assert.Equal(t, report.SEO.Score, report.Quality.Breakdown.SEO)

	// Scoring never touches the allowance
	w = do(t, s.Handler(), http.MethodGet, "/usage", nil, nil)
	var d quota.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, quota.DefaultDailyLimit, d.Remaining)
}

func TestAnalyze_AdSkipsSEO(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := do(t, s.Handler(), http.MethodPost, "/analyze", map[string]any{
		"content": "지금 바로 시작하세요! 놓치지 마세요.",
		"type":    "ad",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "null", string(resp["seo"]))
}

func TestAnalyze_Invalid(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", "[]"},
		{"missing content", map[string]any{"keyword": "홈트"}},
		{"unknown type", map[string]any{"content": "본문", "type": "tiktok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/analyze", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Deps{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	}})
	body := map[string]any{"content": sampleDraft}

	w := do(t, s.Handler(), http.MethodPost, "/analyze", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, s.Handler(), http.MethodPost, "/analyze", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}
