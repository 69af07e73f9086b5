package types

// ChatRequest is the body of POST /api/v1/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned for every completed chat turn.
// Degraded is set when the completion endpoint failed and Response carries
// an error description instead of coach output.
type ChatResponse struct {
	Response     string `json:"response"`
	MessageCount int64  `json:"messageCount"`
	Degraded     bool   `json:"degraded,omitempty"`
}

// ChatMessage is one turn of conversation history as rendered to the UI
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistoryRequest carries the optional bound on GET /api/v1/chat
type ChatHistoryRequest struct {
	Limit int `form:"limit"`
}

type ChatHistoryResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// ProgressAnalysisResponse is the payload of GET /api/v1/progress-analysis
type ProgressAnalysisResponse struct {
	ProgressSummary    string `json:"progressSummary"`
	ProgressPercentage int    `json:"progressPercentage"`
	ExercisesCompleted int    `json:"exercisesCompleted"`
	TotalExercises     int    `json:"totalExercises"`
	DailyCalories      string `json:"dailyCalories"`
	StreakInfo         string `json:"streakInfo"`
}

type UserProfileResponse struct {
	Username string `json:"username"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
