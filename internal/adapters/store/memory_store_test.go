package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abusehq/gatekeeper/internal/core"
	"go.uber.org/zap"
)

func newTicket(submittedAt time.Time) *core.Ticket {
	return &core.Ticket{
		SubmittedAt: submittedAt,
		Reporter:    "alice@example.com",
		Title:       "Suspicious email",
		Body:        "Please review.",
		URLs:        []string{"http://example.bad/reset"},
		Headers:     "Authentication-Results: mx; spf=pass",
		Status:      core.TicketStatusQueued,
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Stop()

	id, err := s.Create(context.Background(), newTicket(time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty id")
	}

	ticket, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.ID != id {
		t.Errorf("unexpected id: got=%q want=%q", ticket.ID, id)
	}
	if ticket.Status != core.TicketStatusQueued {
		t.Errorf("unexpected status: %q", ticket.Status)
	}
}

func TestMemoryStoreGetUnknownID(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Stop()

	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Stop()

	id, err := s.Create(context.Background(), newTicket(time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := "<html>report</html>"
	spf := "pass"
	result := &core.AnalyzerResult{
		HTML: &html,
		Verdict: &core.Verdict{
			SPF:     &spf,
			Overall: core.VerdictFail,
		},
	}

	if err := s.Update(context.Background(), id, core.TicketStatusAnalyzed, core.AnalyzerStatusFail, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ticket, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.Status != core.TicketStatusAnalyzed {
		t.Errorf("unexpected status: %q", ticket.Status)
	}
	if ticket.AnalyzerStatus != core.AnalyzerStatusFail {
		t.Errorf("unexpected analyzer status: %q", ticket.AnalyzerStatus)
	}
	if ticket.AnalyzerResult == nil || ticket.AnalyzerResult.HTML == nil || *ticket.AnalyzerResult.HTML != html {
		t.Error("analyzer result not persisted")
	}

	if err := s.Update(context.Background(), "missing", core.TicketStatusAnalyzed, core.AnalyzerStatusFail, nil); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Stop()

	base := time.Now()
	oldID, err := s.Create(context.Background(), newTicket(base.Add(-time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	newID, err := s.Create(context.Background(), newTicket(base))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tickets, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	if tickets[0].ID != newID || tickets[1].ID != oldID {
		t.Errorf("unexpected order: %q, %q", tickets[0].ID, tickets[1].ID)
	}
}

func TestMemoryStoreReturnsDetachedCopies(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Stop()

	id, err := s.Create(context.Background(), newTicket(time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Status = core.TicketStatusError
	first.URLs[0] = "mutated"

	second, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Status != core.TicketStatusQueued {
		t.Errorf("stored status mutated: %q", second.Status)
	}
	if second.URLs[0] != "http://example.bad/reset" {
		t.Errorf("stored urls mutated: %q", second.URLs[0])
	}
}
