package store

import (
	"strings"
	"testing"
)

func TestAddDecision(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	d := &Decision{
		RequestID:    "req-001",
		ChatID:       "group-42",
		Path:         "group",
		Outcome:      "structured",
		MessageCount: 6,
	}
	if err := db.AddDecision(d); err != nil {
		t.Fatalf("AddDecision: %v", err)
	}
	if d.ID == 0 {
		t.Error("ID not set after insert")
	}
	if d.CreatedAt == 0 {
		t.Error("CreatedAt not set after insert")
	}

	decs, err := db.GetRecentDecisions(10)
	if err != nil {
		t.Fatalf("GetRecentDecisions: %v", err)
	}
	if len(decs) != 1 {
		t.Fatalf("got %d decisions, want 1", len(decs))
	}
	if decs[0].RequestID != "req-001" {
		t.Errorf("RequestID = %q, want req-001", decs[0].RequestID)
	}
	if decs[0].Outcome != "structured" {
		t.Errorf("Outcome = %q, want structured", decs[0].Outcome)
	}
	if decs[0].MessageCount != 6 {
		t.Errorf("MessageCount = %d, want 6", decs[0].MessageCount)
	}
}

func TestAddDecisionReasonTruncation(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	d := &Decision{
		RequestID: "req-001",
		Path:      "group",
		Outcome:   "fallback",
		Reason:    strings.Repeat("x", 4*1024),
	}
	if err := db.AddDecision(d); err != nil {
		t.Fatalf("AddDecision: %v", err)
	}

	decs, _ := db.GetRecentDecisions(1)
	if len(decs[0].Reason) != maxReasonSize {
		t.Errorf("Reason length = %d, want %d", len(decs[0].Reason), maxReasonSize)
	}
}

func TestGetRecentDecisionsLimit(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	for i, outcome := range []string{"structured", "fallback", "structured"} {
		d := &Decision{
			RequestID: "req",
			Path:      "group",
			Outcome:   outcome,
			CreatedAt: int64(1000 + i),
		}
		if err := db.AddDecision(d); err != nil {
			t.Fatalf("AddDecision %d: %v", i, err)
		}
	}

	decs, err := db.GetRecentDecisions(2)
	if err != nil {
		t.Fatalf("GetRecentDecisions: %v", err)
	}
	if len(decs) != 2 {
		t.Fatalf("got %d decisions, want 2", len(decs))
	}
	// Newest first
	if decs[0].CreatedAt != 1002 || decs[1].CreatedAt != 1001 {
		t.Errorf("order = [%d, %d], want [1002, 1001]", decs[0].CreatedAt, decs[1].CreatedAt)
	}
}

func TestGetRecentDecisionsEmpty(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	decs, err := db.GetRecentDecisions(10)
	if err != nil {
		t.Fatalf("GetRecentDecisions: %v", err)
	}
	if len(decs) != 0 {
		t.Errorf("got %d decisions on empty db, want 0", len(decs))
	}
}

func TestCountDecisionsByOutcome(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	for _, outcome := range []string{"structured", "structured", "fallback"} {
		d := &Decision{RequestID: "req", Path: "private", Outcome: outcome}
		if err := db.AddDecision(d); err != nil {
			t.Fatalf("AddDecision: %v", err)
		}
	}

	counts, err := db.CountDecisionsByOutcome()
	if err != nil {
		t.Fatalf("CountDecisionsByOutcome: %v", err)
	}
	if counts["structured"] != 2 {
		t.Errorf("structured = %d, want 2", counts["structured"])
	}
	if counts["fallback"] != 1 {
		t.Errorf("fallback = %d, want 1", counts["fallback"])
	}
}
