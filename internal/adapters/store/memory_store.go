package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrTicketNotFound is returned when a ticket id has no stored row
	ErrTicketNotFound = errors.New("ticket not found")
)

// MemoryStore is an in-memory implementation of the TicketStore interface,
// used for tests and ephemeral runs
type MemoryStore struct {
	tickets map[string]*core.Ticket
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory ticket store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		tickets: make(map[string]*core.Ticket),
		logger:  logger,
	}
}

// Create persists a new ticket and returns its assigned id
func (s *MemoryStore) Create(ctx context.Context, ticket *core.Ticket) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket.ID = uuid.NewString()
	s.tickets[ticket.ID] = copyTicket(ticket)
	return ticket.ID, nil
}

// Get retrieves a ticket by id
func (s *MemoryStore) Get(ctx context.Context, id string) (*core.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return copyTicket(ticket), nil
}

// List returns all tickets, newest first
func (s *MemoryStore) List(ctx context.Context) ([]*core.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]*core.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		tickets = append(tickets, copyTicket(ticket))
	}
	sort.Slice(tickets, func(i, j int) bool {
		if !tickets[i].SubmittedAt.Equal(tickets[j].SubmittedAt) {
			return tickets[i].SubmittedAt.After(tickets[j].SubmittedAt)
		}
		return tickets[i].ID < tickets[j].ID
	})
	return tickets, nil
}

// Update atomically writes the lifecycle state and analysis outcome of one ticket
func (s *MemoryStore) Update(ctx context.Context, id string, status core.TicketStatus, analyzerStatus core.AnalyzerStatus, result *core.AnalyzerResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}
	ticket.Status = status
	ticket.AnalyzerStatus = analyzerStatus
	ticket.AnalyzerResult = result
	return nil
}

// Stop releases the store
func (s *MemoryStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = make(map[string]*core.Ticket)
}

// copyTicket returns a detached copy so callers cannot mutate stored rows
func copyTicket(ticket *core.Ticket) *core.Ticket {
	clone := *ticket
	if ticket.URLs != nil {
		clone.URLs = append([]string(nil), ticket.URLs...)
	}
	if ticket.AnalyzerResult != nil {
		result := *ticket.AnalyzerResult
		if ticket.AnalyzerResult.HTML != nil {
			html := *ticket.AnalyzerResult.HTML
			result.HTML = &html
		}
		if ticket.AnalyzerResult.Verdict != nil {
			verdict := *ticket.AnalyzerResult.Verdict
			result.Verdict = &verdict
		}
		clone.AnalyzerResult = &result
	}
	return &clone
}
