package user

import (
	"context"
	"fmt"

	"topcoach/internal/logic/chat"
	"topcoach/internal/middleware"
	"topcoach/internal/svc"
	"topcoach/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetProfileLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Get the authenticated user's profile
func NewGetProfileLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetProfileLogic {
	return &GetProfileLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetProfileLogic) GetProfile() (*types.UserProfileResponse, error) {
	externalID := middleware.ExternalID(l.ctx)
	if externalID == "" {
		return nil, chat.ErrUnauthenticated
	}

	u, err := l.svcCtx.DB.EnsureUser(l.ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	name, err := l.svcCtx.DB.DisplayName(l.ctx, u.ID)
	if err != nil {
		l.Errorf("Failed to load display name: %v", err)
		name = "Unknown"
	}
	return &types.UserProfileResponse{Username: name}, nil
}
