package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"topcoach/internal/config"
	"topcoach/internal/db"
	"topcoach/internal/glm"
	"topcoach/internal/svc"
	"topcoach/internal/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// stubGLM fakes the completion endpoint. Chat-model replies are numbered
// deterministically; the summary model returns a fixed info blob.
type stubGLM struct {
	mu        sync.Mutex
	fail      bool
	chatCalls int
	requests  []capturedRequest
}

func (s *stubGLM) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *stubGLM) captured() []capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]capturedRequest(nil), s.requests...)
}

func (s *stubGLM) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad completion request: %v", err)
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		fail := s.fail
		var answer string
		if req.Model == "glm-4-air" {
			answer = `{"weight":"80kg"}`
		} else {
			systemPrompt := ""
			if len(req.Messages) > 0 {
				systemPrompt = req.Messages[0].Content
			}
			switch {
			case strings.Contains(systemPrompt, "progress analysis AI"):
				answer = "Crushed 3 sets of squats today!"
			case strings.Contains(systemPrompt, "nutrition and fitness AI"):
				answer = "2200"
			case strings.Contains(systemPrompt, "streak analysis AI"):
				answer = "15 days"
			default:
				s.chatCalls++
				answer = fmt.Sprintf("coach-%d", s.chatCalls)
			}
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "upstream failure", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": answer}},
			},
		})
	}
}

type testEnv struct {
	api    *httptest.Server
	stub   *stubGLM
	dbPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stub := &stubGLM{}
	glmSrv := httptest.NewServer(stub.handler(t))
	t.Cleanup(glmSrv.Close)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := db.NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var c config.Config
	c.Auth.AccessSecret = testSecret

	svcCtx := &svc.ServiceContext{
		Config: c,
		DB:     store,
		GLM: glm.New(glm.Config{
			BaseURL:      glmSrv.URL,
			APIKey:       "test-key",
			ChatModel:    "glm-4",
			SummaryModel: "glm-4-air",
			Timeout:      5 * time.Second,
		}),
	}

	api := httptest.NewServer(Router(svcCtx))
	t.Cleanup(api.Close)

	return &testEnv{api: api, stub: stub, dbPath: dbPath}
}

func token(t *testing.T, subject string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.api.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestChatRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/chat", "", types.ChatRequest{Message: "hi"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/chat", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_empty")

	for _, message := range []string{"", "   \n\t"} {
		resp := env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: message})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	// Nothing was persisted for the aborted turns
	resp := env.do(t, http.MethodGet, "/api/v1/chat", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[types.ChatHistoryResponse](t, resp)
	require.Empty(t, history.Messages)
}

func TestFirstMessageTurn(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_first")

	resp := env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: "hello coach"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turn := decode[types.ChatResponse](t, resp)
	require.Equal(t, "coach-1", turn.Response)
	require.Equal(t, int64(1), turn.MessageCount)
	require.False(t, turn.Degraded)

	// No summary exists yet: the placeholder context was sent upstream
	captured := env.stub.captured()
	require.Len(t, captured, 1)
	require.Equal(t, "Important Information: No previous information available.",
		captured[0].Messages[1].Content)

	// Both turns persisted in chronological order
	resp = env.do(t, http.MethodGet, "/api/v1/chat", tok, nil)
	history := decode[types.ChatHistoryResponse](t, resp)
	require.Equal(t, []types.ChatMessage{
		{Role: "user", Content: "hello coach"},
		{Role: "assistant", Content: "coach-1"},
	}, history.Messages)
}

func TestFourthTurnTriggersSummary(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_summary")

	for i := 1; i <= 4; i++ {
		resp := env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: fmt.Sprintf("m%d", i)})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		turn := decode[types.ChatResponse](t, resp)
		require.Equal(t, int64(i), turn.MessageCount)
	}

	// Exactly one summarization request went to the lightweight model
	var airRequests []capturedRequest
	for _, req := range env.stub.captured() {
		if req.Model == "glm-4-air" {
			airRequests = append(airRequests, req)
		}
	}
	require.Len(t, airRequests, 1)

	// The summary row holds the full chronological transcript at trigger time:
	// three complete exchanges plus the fourth user turn.
	raw, err := sql.Open("sqlite", env.dbPath)
	require.NoError(t, err)
	defer raw.Close()

	var transcript, info string
	require.NoError(t, raw.QueryRow(
		`SELECT transcript, important_info FROM summaries ORDER BY id DESC LIMIT 1`,
	).Scan(&transcript, &info))

	want := strings.Join([]string{
		"user: m1", "assistant: coach-1",
		"user: m2", "assistant: coach-2",
		"user: m3", "assistant: coach-3",
		"user: m4",
	}, "\n")
	require.Equal(t, want, transcript)
	require.Equal(t, `{"weight":"80kg"}`, info)

	// The fourth reply was generated with the fresh summary as context
	captured := env.stub.captured()
	last := captured[len(captured)-1]
	require.Equal(t, "glm-4", last.Model)
	require.Equal(t, `Important Information: {"weight":"80kg"}`, last.Messages[1].Content)
}

func TestCompletionFailureDegradesTurn(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_degraded")
	env.stub.setFail(true)

	resp := env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: "hello?"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "a completion failure must not fail the turn")
	turn := decode[types.ChatResponse](t, resp)
	require.True(t, turn.Degraded)
	require.Contains(t, turn.Response, "Error making API request")
	require.Equal(t, int64(1), turn.MessageCount)

	// The failure text is never persisted as assistant speech
	env.stub.setFail(false)
	resp = env.do(t, http.MethodGet, "/api/v1/chat", tok, nil)
	history := decode[types.ChatHistoryResponse](t, resp)
	require.Equal(t, []types.ChatMessage{
		{Role: "user", Content: "hello?"},
	}, history.Messages)
}

func TestHistoryLimitReturnsMostRecent(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_limit")

	for i := 1; i <= 3; i++ {
		env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: fmt.Sprintf("m%d", i)})
	}

	resp := env.do(t, http.MethodGet, "/api/v1/chat?limit=2", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[types.ChatHistoryResponse](t, resp)
	require.Equal(t, []types.ChatMessage{
		{Role: "user", Content: "m3"},
		{Role: "assistant", Content: "coach-3"},
	}, history.Messages)
}

func TestProgressAnalysisEmptyHistory(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_analysis_empty")

	resp := env.do(t, http.MethodGet, "/api/v1/progress-analysis", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analysis := decode[types.ProgressAnalysisResponse](t, resp)
	require.Equal(t, types.ProgressAnalysisResponse{
		ProgressSummary:    "Nothing.",
		ProgressPercentage: 0,
		ExercisesCompleted: 0,
		TotalExercises:     4,
		DailyCalories:      "Unknown.",
		StreakInfo:         "Unknown.",
	}, analysis)

	// Empty history never touches the completion endpoint
	require.Empty(t, env.stub.captured())
}

func TestProgressAnalysisWithHistory(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_analysis")

	env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: "I did squats"})
	env.do(t, http.MethodPost, "/api/v1/chat", tok, types.ChatRequest{Message: "And bench"})

	resp := env.do(t, http.MethodGet, "/api/v1/progress-analysis", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analysis := decode[types.ProgressAnalysisResponse](t, resp)

	require.Equal(t, "Crushed 3 sets of squats today!", analysis.ProgressSummary)
	require.Equal(t, "2200", analysis.DailyCalories)
	require.Equal(t, "15 days", analysis.StreakInfo)
	// Two user turns today: 2 of 4 exercises, 50%
	require.Equal(t, 2, analysis.ExercisesCompleted)
	require.Equal(t, 4, analysis.TotalExercises)
	require.Equal(t, 50, analysis.ProgressPercentage)
}

func TestUserProfile(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "clerk_profile_xyz")

	resp := env.do(t, http.MethodGet, "/api/v1/user/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[types.UserProfileResponse](t, resp)
	require.Equal(t, "User_clerk_pr", profile.Username)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[types.HealthResponse](t, resp)
	require.Equal(t, "healthy", health.Status)
}
