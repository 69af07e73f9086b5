package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"topcoach/internal/coach"
	"topcoach/internal/glm"
	"topcoach/internal/middleware"
	"topcoach/internal/svc"
	"topcoach/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrUnauthenticated is returned when no verified identity reached the logic
// layer. The JWT middleware normally rejects such requests earlier.
var ErrUnauthenticated = errors.New("no authenticated identity")

// ErrEmptyMessage is returned for a missing or blank chat message
var ErrEmptyMessage = errors.New("message is required")

type SendMessageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Handle one inbound chat turn
func NewSendMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SendMessageLogic {
	return &SendMessageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// SendMessage runs the per-turn pipeline: persist the user turn, evaluate the
// summarization trigger, assemble context (latest summary + recent window),
// call the completion endpoint, persist the reply.
//
// Persistence failures inside the turn are logged and do not abort it. A
// completion failure still completes the turn: the response carries an
// error-describing string with Degraded set, and nothing is persisted as
// assistant speech.
func (l *SendMessageLogic) SendMessage(req *types.ChatRequest) (*types.ChatResponse, error) {
	externalID := middleware.ExternalID(l.ctx)
	if externalID == "" {
		return nil, ErrUnauthenticated
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	user, err := l.svcCtx.DB.EnsureUser(l.ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	// Best-effort: the turn continues even if the write fails
	if err := l.svcCtx.DB.AppendMessage(l.ctx, user.ID, "user", message); err != nil {
		l.Errorf("Failed to persist user turn: %v", err)
	}

	count, err := l.svcCtx.DB.CountUserTurns(l.ctx, user.ID)
	if err != nil {
		l.Errorf("Failed to count user turns: %v", err)
	}

	if coach.ShouldSummarize(count) {
		l.summarizeHistory(user.ID)
	}

	info, found, err := l.svcCtx.DB.LatestImportantInfo(l.ctx, user.ID)
	if err != nil {
		l.Errorf("Failed to load latest important info: %v", err)
	}
	if err != nil || !found {
		info = coach.NoPreviousInfo
	}

	recent, err := l.svcCtx.DB.ListMessages(l.ctx, user.ID, coach.RecentWindow)
	if err != nil {
		l.Errorf("Failed to load recent messages: %v", err)
		recent = nil
	}

	answer, err := l.svcCtx.GLM.Complete(l.ctx, coach.SystemPrompt, info, recent, message)
	if err != nil {
		var ce *glm.CompletionError
		if errors.As(err, &ce) {
			// The turn still completes; the failure surfaces in the response
			// body, never in the conversation history.
			l.Errorf("Completion failed: %v", err)
			return &types.ChatResponse{
				Response:     fmt.Sprintf("Error making API request: %v", ce.Err),
				MessageCount: count,
				Degraded:     true,
			}, nil
		}
		return nil, err
	}

	if err := l.svcCtx.DB.AppendMessage(l.ctx, user.ID, "assistant", answer); err != nil {
		l.Errorf("Failed to persist assistant turn: %v", err)
	}

	return &types.ChatResponse{
		Response:     answer,
		MessageCount: count,
	}, nil
}

// summarizeHistory produces and persists one conversation summary. Every step
// is best-effort: a failure is logged and the enclosing turn proceeds.
func (l *SendMessageLogic) summarizeHistory(userID string) {
	history, err := l.svcCtx.DB.ListMessages(l.ctx, userID, 0)
	if err != nil {
		l.Errorf("Failed to load history for summarization: %v", err)
		return
	}
	history = coach.CapHistory(history, coach.MaxHistoryMessages)

	info, err := l.svcCtx.GLM.Summarize(l.ctx, history)
	if err != nil {
		l.Errorf("Summarization failed: %v", err)
		return
	}

	if err := l.svcCtx.DB.AppendSummary(l.ctx, userID, coach.RenderTranscript(history), info); err != nil {
		l.Errorf("Failed to persist summary: %v", err)
	}
}
