package analysis

import (
	"context"
	"fmt"
	"time"

	"topcoach/internal/coach"
	"topcoach/internal/logic/chat"
	"topcoach/internal/middleware"
	"topcoach/internal/svc"
	"topcoach/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ProgressAnalysisLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Analyze the full conversation history on demand
func NewProgressAnalysisLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProgressAnalysisLogic {
	return &ProgressAnalysisLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ProgressAnalysis runs three independent extraction calls (progress, calorie,
// streak) over the capped history. An empty history short-circuits to fixed
// defaults without touching the completion endpoint. A failed extraction call
// degrades to its default token rather than failing the request.
func (l *ProgressAnalysisLogic) ProgressAnalysis() (*types.ProgressAnalysisResponse, error) {
	externalID := middleware.ExternalID(l.ctx)
	if externalID == "" {
		return nil, chat.ErrUnauthenticated
	}

	user, err := l.svcCtx.DB.EnsureUser(l.ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	history, err := l.svcCtx.DB.ListMessages(l.ctx, user.ID, 0)
	if err != nil {
		l.Errorf("Failed to load history: %v", err)
		return nil, err
	}

	if len(history) == 0 {
		return &types.ProgressAnalysisResponse{
			ProgressSummary:    coach.NoProgress,
			ProgressPercentage: 0,
			ExercisesCompleted: 0,
			TotalExercises:     coach.TotalExercises,
			DailyCalories:      coach.UnknownMetric,
			StreakInfo:         coach.UnknownMetric,
		}, nil
	}

	serialized := coach.HistoryJSON(coach.CapHistory(history, coach.MaxHistoryMessages))

	progress := l.extract(coach.ProgressAnalysisPrompt,
		"Analyze this conversation history and provide today's progress summary: "+serialized,
		coach.NoProgress)
	calories := l.extract(coach.CalorieAnalysisPrompt,
		"Analyze this conversation history and calculate daily calorie requirements: "+serialized,
		coach.UnknownMetric)
	streak := l.extract(coach.StreakAnalysisPrompt,
		"Analyze this conversation history and extract streak information: "+serialized,
		coach.UnknownMetric)

	completed, pct := l.dailyExerciseMetrics(user.ID)

	return &types.ProgressAnalysisResponse{
		ProgressSummary:    progress,
		ProgressPercentage: pct,
		ExercisesCompleted: completed,
		TotalExercises:     coach.TotalExercises,
		DailyCalories:      calories,
		StreakInfo:         streak,
	}, nil
}

// extract runs one stateless completion call with no prior turns and empty
// long-term context, falling back to the given default token on failure.
func (l *ProgressAnalysisLogic) extract(systemPrompt, question, fallback string) string {
	answer, err := l.svcCtx.GLM.Complete(l.ctx, systemPrompt, "", nil, question)
	if err != nil {
		l.Errorf("Analysis completion failed: %v", err)
		return fallback
	}
	return answer
}

// dailyExerciseMetrics derives the exercise counters from today's activity:
// one user turn counts as one exercise interaction, capped at TotalExercises.
func (l *ProgressAnalysisLogic) dailyExerciseMetrics(userID string) (completed, pct int) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	turnsToday, err := l.svcCtx.DB.CountUserTurnsSince(l.ctx, userID, startOfDay)
	if err != nil {
		l.Errorf("Failed to count today's turns: %v", err)
		return 0, 0
	}

	completed = int(turnsToday)
	if completed > coach.TotalExercises {
		completed = coach.TotalExercises
	}
	return completed, completed * 100 / coach.TotalExercises
}
