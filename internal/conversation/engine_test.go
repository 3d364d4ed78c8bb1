package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/askrobots/intakebot/internal/llm"
)

type fakeStore struct {
	records   []Record
	findErr   error
	appendErr error
	appends   int
}

func (s *fakeStore) FindLatest(_ context.Context, userID int64) (*Record, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID == userID {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Append(_ context.Context, rec *Record) error {
	s.appends++
	if s.appendErr != nil {
		return s.appendErr
	}
	stored := *rec
	stored.ID = int64(len(s.records) + 1)
	s.records = append(s.records, stored)
	return nil
}

func statePtr(s State) *State { return &s }

func TestNextEntryConditions(t *testing.T) {
	e := NewEngine(&fakeStore{}, &llm.Mock{Reply: "llm"})
	ctx := context.Background()

	cases := []struct {
		name  string
		prior *State
		text  string
	}{
		{"no prior record", nil, "hi"},
		{"finished state", statePtr(StateFinished), "anything"},
		{"start over lowercase", statePtr(StateGeneralAssistance), "please start over"},
		{"start over mixed case", statePtr(StateAskGender), "START Over now"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply, next := e.Next(ctx, tc.prior, tc.text)
			if reply != "What is your family size?" {
				t.Fatalf("reply = %q", reply)
			}
			if next != StateAskFamilySize {
				t.Fatalf("next = %q", next)
			}
		})
	}
}

func TestNextStageSequence(t *testing.T) {
	e := NewEngine(&fakeStore{}, &llm.Mock{Reply: "llm"})
	ctx := context.Background()

	steps := []struct {
		prior State
		reply string
		next  State
	}{
		{StateAskFamilySize, "What is your Household income?", StateAskHouseholdIncome},
		{StateAskHouseholdIncome, "What is your gender?", StateAskGender},
		{StateAskGender, "Thank you for providing your information. How can I assist you further?", StateGeneralAssistance},
	}
	for _, step := range steps {
		reply, next := e.Next(ctx, statePtr(step.prior), "some answer")
		if reply != step.reply {
			t.Fatalf("prior %q: reply = %q, want %q", step.prior, reply, step.reply)
		}
		if next != step.next {
			t.Fatalf("prior %q: next = %q, want %q", step.prior, next, step.next)
		}
	}
}

func TestNextGeneralAssistanceFixedPoint(t *testing.T) {
	fc := &llm.Mock{Reply: "sure, here is a joke"}
	e := NewEngine(&fakeStore{}, fc)
	ctx := context.Background()

	prior := statePtr(StateGeneralAssistance)
	for i := 0; i < 5; i++ {
		reply, next := e.Next(ctx, prior, "tell me a joke")
		if next != StateGeneralAssistance {
			t.Fatalf("iteration %d: next = %q", i, next)
		}
		if reply != "sure, here is a joke" {
			t.Fatalf("iteration %d: reply = %q", i, reply)
		}
	}
	if fc.Calls != 5 {
		t.Fatalf("completer calls = %d, want 5", fc.Calls)
	}
}

func TestNextUnknownStateResets(t *testing.T) {
	e := NewEngine(&fakeStore{}, &llm.Mock{})
	reply, next := e.Next(context.Background(), statePtr(State("legacy_stage")), "hello")
	if reply != "How can I assist you further?" {
		t.Fatalf("reply = %q", reply)
	}
	if next != StateFinished {
		t.Fatalf("next = %q", next)
	}
}

func TestProcessScenarioWalk(t *testing.T) {
	store := &fakeStore{}
	fc := &llm.Mock{Reply: "a man walks into a bar"}
	e := NewEngine(store, fc)
	ctx := context.Background()
	const userID = int64(42)

	steps := []struct {
		text  string
		reply string
		state State
	}{
		{"hi", "What is your family size?", StateAskFamilySize},
		{"4", "What is your Household income?", StateAskHouseholdIncome},
		{"$50k", "What is your gender?", StateAskGender},
		{"female", "Thank you for providing your information. How can I assist you further?", StateGeneralAssistance},
		{"tell me a joke", "a man walks into a bar", StateGeneralAssistance},
	}

	for i, step := range steps {
		reply := e.Process(ctx, userID, step.text)
		if reply != step.reply {
			t.Fatalf("step %d: reply = %q, want %q", i, reply, step.reply)
		}
		rec := store.records[len(store.records)-1]
		if rec.UserID != userID || rec.Query != step.text {
			t.Fatalf("step %d: stored record = %+v", i, rec)
		}
		if rec.Response != reply {
			t.Fatalf("step %d: stored response %q does not match sent reply %q", i, rec.Response, reply)
		}
		if rec.State != step.state {
			t.Fatalf("step %d: stored state = %q, want %q", i, rec.State, step.state)
		}
	}
	if store.appends != len(steps) {
		t.Fatalf("appends = %d, want %d", store.appends, len(steps))
	}
}

func TestProcessCompletionFailurePassesFallbackThrough(t *testing.T) {
	store := &fakeStore{records: []Record{{UserID: 5, State: StateGeneralAssistance}}}
	e := NewEngine(store, &llm.Mock{})

	reply := e.Process(context.Background(), 5, "tell me a joke")
	if reply != llm.FallbackReply {
		t.Fatalf("reply = %q, want completion fallback", reply)
	}
	last := store.records[len(store.records)-1]
	if last.State != StateGeneralAssistance {
		t.Fatalf("stored state = %q, want general_assistance", last.State)
	}
	if last.Response != llm.FallbackReply {
		t.Fatalf("stored response = %q", last.Response)
	}
}

func TestProcessStartOverSkipsCompleter(t *testing.T) {
	store := &fakeStore{records: []Record{{UserID: 7, State: StateGeneralAssistance}}}
	fc := &llm.Mock{Reply: "should not be used"}
	e := NewEngine(store, fc)

	reply := e.Process(context.Background(), 7, "please start over")
	if reply != "What is your family size?" {
		t.Fatalf("reply = %q", reply)
	}
	if fc.Calls != 0 {
		t.Fatalf("completer calls = %d, want 0", fc.Calls)
	}
	last := store.records[len(store.records)-1]
	if last.State != StateAskFamilySize {
		t.Fatalf("stored state = %q", last.State)
	}
}

func TestProcessEmptyReplySubstituted(t *testing.T) {
	store := &fakeStore{records: []Record{{UserID: 1, State: StateGeneralAssistance}}}
	e := NewEngine(store, &llm.Mock{Reply: "   "})

	reply := e.Process(context.Background(), 1, "hm")
	want := "I encountered an error processing your request. Please try again."
	if reply != want {
		t.Fatalf("reply = %q, want %q", reply, want)
	}
	last := store.records[len(store.records)-1]
	if last.Response != want {
		t.Fatalf("stored response = %q, want substituted text", last.Response)
	}
	if last.State != StateGeneralAssistance {
		t.Fatalf("stored state = %q", last.State)
	}
}

func TestProcessLookupFailure(t *testing.T) {
	store := &fakeStore{findErr: errors.New("connection refused")}
	e := NewEngine(store, &llm.Mock{})

	reply := e.Process(context.Background(), 3, "hi")
	if reply != "An error occurred while processing your message." {
		t.Fatalf("reply = %q", reply)
	}
	if store.appends != 0 {
		t.Fatalf("appends = %d, want 0", store.appends)
	}
}

func TestProcessAppendFailure(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("disk full")}
	e := NewEngine(store, &llm.Mock{})

	reply := e.Process(context.Background(), 3, "hi")
	if reply != "An error occurred while processing your message." {
		t.Fatalf("reply = %q", reply)
	}
	if len(store.records) != 0 {
		t.Fatalf("records stored = %d, want 0", len(store.records))
	}
}

func TestProcessFailedExchangeDoesNotAdvanceState(t *testing.T) {
	store := &fakeStore{records: []Record{{UserID: 9, State: StateAskFamilySize}}}
	e := NewEngine(store, &llm.Mock{})

	store.appendErr = errors.New("down")
	_ = e.Process(context.Background(), 9, "4")

	store.appendErr = nil
	reply := e.Process(context.Background(), 9, "4 people")
	if reply != "What is your Household income?" {
		t.Fatalf("reply after recovery = %q", reply)
	}
	last := store.records[len(store.records)-1]
	if last.State != StateAskHouseholdIncome {
		t.Fatalf("stored state = %q", last.State)
	}
}
