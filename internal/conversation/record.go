package conversation

import (
	"context"
	"time"
)

// State marks what stage a conversation is in after an exchange.
// Values are stored verbatim on every record.
type State string

const (
	// StateAskFamilySize means the family size question has been asked.
	StateAskFamilySize State = "ask_family_size"
	// StateAskHouseholdIncome means the household income question has been asked.
	StateAskHouseholdIncome State = "ask_household_income"
	// StateAskGender means the gender question has been asked.
	StateAskGender State = "ask_gender"
	// StateGeneralAssistance means onboarding is complete and free text goes to the completion service.
	StateGeneralAssistance State = "general_assistance"
	// StateFinished is the terminal reset state; the next message restarts onboarding.
	StateFinished State = "finished"
)

// Record is one persisted message exchange. Records are append-only:
// the engine creates them and reads the latest one, nothing mutates them.
type Record struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Query     string    `db:"query"`
	Response  string    `db:"response"`
	State     State     `db:"state"`
	CreatedAt time.Time `db:"created_at"`
}

// Store persists conversation records.
type Store interface {
	// FindLatest returns the most recent record for the user, or (nil, nil) when none exists.
	FindLatest(ctx context.Context, userID int64) (*Record, error)
	// Append durably persists a new record. Per-user ordering follows call order.
	Append(ctx context.Context, rec *Record) error
}

// Stats aggregates stored exchanges for the admin overview.
type Stats struct {
	Exchanges int64 `db:"exchanges"`
	Users     int64 `db:"users"`
}

// StatsReader exposes aggregate counters over stored records.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// Completer produces a reply for a single free-text prompt.
// Implementations never fail outward; they substitute a fallback string instead.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}
