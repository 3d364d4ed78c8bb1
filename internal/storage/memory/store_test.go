package memory

import (
	"context"
	"testing"

	"github.com/askrobots/intakebot/internal/conversation"
)

func TestFindLatestEmpty(t *testing.T) {
	s := NewStore()
	rec, err := s.FindLatest(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestAppendOrdering(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	states := []conversation.State{
		conversation.StateAskFamilySize,
		conversation.StateAskHouseholdIncome,
		conversation.StateAskGender,
	}
	for _, st := range states {
		rec := &conversation.Record{UserID: 10, Query: "q", Response: "r", State: st}
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
		if rec.ID == 0 {
			t.Fatal("append did not assign id")
		}
		if rec.CreatedAt.IsZero() {
			t.Fatal("append did not assign created_at")
		}
	}

	latest, err := s.FindLatest(ctx, 10)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if latest == nil || latest.State != conversation.StateAskGender {
		t.Fatalf("latest = %+v, want ask_gender", latest)
	}
}

func TestFindLatestIsolatesUsers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Append(ctx, &conversation.Record{UserID: 1, State: conversation.StateGeneralAssistance})
	_ = s.Append(ctx, &conversation.Record{UserID: 2, State: conversation.StateAskFamilySize})

	latest, err := s.FindLatest(ctx, 1)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if latest == nil || latest.State != conversation.StateGeneralAssistance {
		t.Fatalf("latest for user 1 = %+v", latest)
	}
}

func TestStats(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Append(ctx, &conversation.Record{UserID: 1})
	_ = s.Append(ctx, &conversation.Record{UserID: 1})
	_ = s.Append(ctx, &conversation.Record{UserID: 2})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Exchanges != 3 || st.Users != 2 {
		t.Fatalf("stats = %+v, want 3 exchanges over 2 users", st)
	}
}
