package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/askrobots/intakebot/core/logger"
	"log/slog"
)

// FallbackReply is returned on any completion failure. The client never
// surfaces an error to callers.
const FallbackReply = "I encountered an error trying to process your request. Please try again later."

// Client wraps the completion service. Each call is a single stateless
// request carrying only the current prompt.
type Client struct {
	api openai.Client
	cfg Config
}

// NewClient builds a completion client from normalized configuration.
func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Failures map to the fallback reply, no retry policy on top.
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api: openai.NewClient(opts...),
		cfg: cfg,
	}
}

// Complete sends a single prompt and returns the generated reply.
// Any transport or protocol failure, and any empty or malformed response,
// collapses into FallbackReply.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	start := time.Now()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
	})
	if err != nil {
		logger.LogEvent(ctx, logger.LLM, slog.LevelError, "complete.fail",
			slog.String("model", c.cfg.Model),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", "COMPLETION_UNAVAILABLE"),
			slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
		)
		return FallbackReply
	}

	if len(resp.Choices) == 0 {
		logger.LogEvent(ctx, logger.LLM, slog.LevelWarn, "complete.empty",
			slog.String("model", c.cfg.Model),
			slog.String("reason", "no_choices"),
		)
		return FallbackReply
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		logger.LogEvent(ctx, logger.LLM, slog.LevelWarn, "complete.empty",
			slog.String("model", c.cfg.Model),
			slog.String("reason", "blank_content"),
		)
		return FallbackReply
	}

	logger.LogEvent(ctx, logger.LLM, slog.LevelDebug, "complete.success",
		slog.String("model", c.cfg.Model),
		slog.Int("reply_len", len(content)),
		slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
	)
	return content
}
