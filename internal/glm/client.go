package glm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Message is one chat turn as sent to the completion endpoint
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// CompletionError wraps any transport or non-2xx failure from the
// completion endpoint so callers can tell it apart from local errors.
type CompletionError struct {
	Model string
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion request failed (model %s): %v", e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Config holds everything the client needs at construction time.
// The API key is a required secret injected at startup - never a literal.
type Config struct {
	BaseURL      string
	APIKey       string
	ChatModel    string // primary conversational model
	SummaryModel string // lighter model for summarization
	Timeout      time.Duration
}

// Client talks to a GLM chat-completion endpoint through the OpenAI-compatible
// API surface. One request, one response, non-streaming.
type Client struct {
	api          openai.Client
	chatModel    string
	summaryModel string
}

// New creates a completion client from config
func New(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Client{
		api:          openai.NewClient(opts...),
		chatModel:    cfg.ChatModel,
		summaryModel: cfg.SummaryModel,
	}
}

// Complete sends one conversational request against the chat model.
// Message order: system prompt, "Important Information: <contextInfo>"
// (present even when contextInfo is empty), prior turns verbatim, then the
// new user message.
func (c *Client) Complete(ctx context.Context, systemPrompt, contextInfo string, prior []Message, userMessage string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prior)+3)
	messages = append(messages,
		openai.SystemMessage(systemPrompt),
		openai.SystemMessage("Important Information: "+contextInfo),
	)
	for _, m := range prior {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	return c.send(ctx, c.chatModel, messages)
}

// summarizationPrompt drives the dedicated extraction model. The fixed key
// set below is what downstream replies rely on as long-term context.
const summarizationPrompt = `You are a specialized fitness data extraction model. Analyze the conversation and extract the following critical information for bodybuilders:

1. Progress over time (historical development)
2. Player's weight and its progression
3. Gender
4. Problems during training
5. Equipment availability
6. Player's height
7. Injury history (dates and types of injuries)
8. Player's level and progress (linked to dates)
9. Health issues
10. Available training times
11. Dietary habits and lifestyle
12. Psychological motivation and commitment

Format your response as a structured JSON with these keys. If information is not available, use "N/A".`

// Summarize asks the lightweight model to extract the important information
// from a conversation history.
func (c *Client) Summarize(ctx context.Context, history []Message) (string, error) {
	serialized, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize history: %w", err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(summarizationPrompt),
		openai.UserMessage("Conversation history: " + string(serialized)),
	}

	return c.send(ctx, c.summaryModel, messages)
}

func (c *Client) send(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return "", &CompletionError{Model: model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &CompletionError{Model: model, Err: fmt.Errorf("empty choices in response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
