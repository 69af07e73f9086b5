package chat

import (
	"context"
	"fmt"

	"topcoach/internal/middleware"
	"topcoach/internal/svc"
	"topcoach/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetHistoryLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Get conversation history for the authenticated user
func NewGetHistoryLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetHistoryLogic {
	return &GetHistoryLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetHistoryLogic) GetHistory(req *types.ChatHistoryRequest) (*types.ChatHistoryResponse, error) {
	externalID := middleware.ExternalID(l.ctx)
	if externalID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := l.svcCtx.DB.EnsureUser(l.ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	limit := req.Limit
	if limit < 0 {
		limit = 0
	}
	history, err := l.svcCtx.DB.ListMessages(l.ctx, user.ID, limit)
	if err != nil {
		l.Errorf("Failed to load history: %v", err)
		return nil, err
	}

	messages := make([]types.ChatMessage, len(history))
	for i, m := range history {
		messages[i] = types.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return &types.ChatHistoryResponse{Messages: messages}, nil
}
