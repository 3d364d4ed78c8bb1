package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/askrobots/intakebot/core/logger"
	"log/slog"
)

// Fixed reply texts of the onboarding sequence.
const (
	replyFamilySize      = "What is your family size?"
	replyHouseholdIncome = "What is your Household income?"
	replyGender          = "What is your gender?"
	replyThanks          = "Thank you for providing your information. How can I assist you further?"
	replyFinished        = "How can I assist you further?"

	// replyEmptySubstitute replaces a reply that is blank after trimming.
	replyEmptySubstitute = "I encountered an error processing your request. Please try again."
	// replyProcessingError is the catch-all sent when lookup or append fails.
	replyProcessingError = "An error occurred while processing your message."

	restartPhrase = "start over"
)

// Engine decides, per incoming message, what to reply and which state to store.
type Engine struct {
	store     Store
	completer Completer
}

// NewEngine builds an engine over the given store and completion client.
func NewEngine(store Store, completer Completer) *Engine {
	return &Engine{store: store, completer: completer}
}

// Next computes the reply and the new state from the prior state and the message text.
// A nil prior means the user has no stored record. Branches are evaluated in order;
// the restart phrase and absence of a record win over every stage branch.
func (e *Engine) Next(ctx context.Context, prior *State, text string) (string, State) {
	switch {
	case prior == nil,
		*prior == StateFinished,
		strings.Contains(strings.ToLower(text), restartPhrase):
		return replyFamilySize, StateAskFamilySize
	case *prior == StateAskFamilySize:
		return replyHouseholdIncome, StateAskHouseholdIncome
	case *prior == StateAskHouseholdIncome:
		return replyGender, StateAskGender
	case *prior == StateAskGender:
		return replyThanks, StateGeneralAssistance
	case *prior == StateGeneralAssistance:
		return e.completer.Complete(ctx, text), StateGeneralAssistance
	default:
		// Unrecognized stored stage. Reachable only if the state column ever
		// holds a value outside the known set; treated as a reset to finished.
		return replyFinished, StateFinished
	}
}

// Process handles one inbound message end to end: read the latest record,
// compute the transition, append the new record, and return the reply text.
// It never returns an error; every failure collapses into a user-visible reply.
// A failed exchange is not recorded, so the user's next message is still
// governed by their last successful record.
func (e *Engine) Process(ctx context.Context, userID int64, text string) string {
	start := time.Now()

	last, err := e.store.FindLatest(ctx, userID)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCConversations, slog.LevelError, "lookup.fail",
			slog.Int64("user_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", "STORAGE_UNAVAILABLE"),
		)
		return replyProcessingError
	}

	var prior *State
	if last != nil {
		prior = &last.State
	}

	reply, next := e.Next(ctx, prior, text)
	if strings.TrimSpace(reply) == "" {
		logger.LogEvent(ctx, logger.SVCConversations, slog.LevelWarn, "reply.empty",
			slog.Int64("user_id", userID),
			slog.String("state", string(next)),
		)
		reply = replyEmptySubstitute
	}

	rec := &Record{
		UserID:   userID,
		Query:    text,
		Response: reply,
		State:    next,
	}
	if err := e.store.Append(ctx, rec); err != nil {
		logger.LogEvent(ctx, logger.SVCConversations, slog.LevelError, "append.fail",
			slog.Int64("user_id", userID),
			slog.String("state", string(next)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", "STORAGE_UNAVAILABLE"),
		)
		return replyProcessingError
	}

	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(next)),
		slog.Int("reply_len", len(reply)),
		slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
	}
	if prior != nil {
		attrs = append(attrs, slog.String("prior_state", string(*prior)))
	}
	logger.LogEvent(ctx, logger.SVCConversations, slog.LevelInfo, "exchange", attrs...)

	return reply
}
