package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrAnalysisInFlight is returned when an analysis is already running for a ticket id
	ErrAnalysisInFlight = errors.New("analysis already in flight for ticket")
)

// TicketService owns the per-ticket lifecycle state machine. It sequences
// remote analysis, local header parsing and verdict computation, and
// persists exactly one terminal state per analysis run.
type TicketService struct {
	store    TicketStore
	analyzer AnalyzerClient
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewTicketService creates a new ticket lifecycle service
func NewTicketService(store TicketStore, analyzer AnalyzerClient, logger *zap.Logger) *TicketService {
	return &TicketService{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Submit creates a queued ticket from a submission and runs one analysis
func (s *TicketService) Submit(ctx context.Context, sub *TicketSubmission) (*Ticket, error) {
	ticket := &Ticket{
		SubmittedAt: time.Now().UTC(),
		Reporter:    sub.Reporter,
		Title:       sub.Title,
		Body:        sub.Body,
		URLs:        sub.URLs,
		Headers:     sub.Headers,
		Status:      TicketStatusQueued,
	}

	id, err := s.store.Create(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	ticket.ID = id

	s.logger.Info("Ticket queued",
		zap.String("ticket_id", id),
		zap.String("reporter", ticket.Reporter))

	return s.Analyze(ctx, id)
}

// Analyze runs one analysis for the ticket id: queued → analyzing →
// analyzed or analyzer_error. The local verdict is authoritative; a remote
// analyzer failure is recorded alongside it but never masks it. At most one
// analysis per ticket id runs at a time.
func (s *TicketService) Analyze(ctx context.Context, id string) (*Ticket, error) {
	if !s.acquire(id) {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisInFlight, id)
	}
	defer s.release(id)

	ticket, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket %s: %w", id, err)
	}

	if err := s.store.Update(ctx, id, TicketStatusAnalyzing, "", nil); err != nil {
		return nil, fmt.Errorf("failed to mark ticket %s analyzing: %w", id, err)
	}
	ticket.Status = TicketStatusAnalyzing

	// The remote HTML is stored verbatim for human inspection; the verdict
	// below is computed from the locally held headers regardless of what
	// the remote call returns.
	remote := s.analyzer.Analyze(ctx, ticket.Headers)
	if !remote.OK() {
		s.logger.Warn("Remote analyzer unavailable",
			zap.String("ticket_id", id),
			zap.String("cause", remote.Err))
	}

	result := &AnalyzerResult{}
	if remote.OK() {
		html := remote.HTML
		result.HTML = &html
	} else {
		result.Error = remote.Err
	}

	status := TicketStatusAnalyzed
	var analyzerStatus AnalyzerStatus

	signals, scanErr := ScanAuthSignals(ticket.Headers)
	if scanErr != nil {
		s.logger.Warn("Failed to scan ticket headers",
			zap.String("ticket_id", id),
			zap.Error(scanErr))
		status = TicketStatusError
		analyzerStatus = AnalyzerStatusError
		result.Error = scanErr.Error()
	} else {
		verdict := ComputeVerdict(ResolveSignals(signals))
		result.Verdict = &verdict
		analyzerStatus = AnalyzerStatus(verdict.Overall)
	}

	if err := s.store.Update(ctx, id, status, analyzerStatus, result); err != nil {
		return nil, fmt.Errorf("failed to persist analysis for ticket %s: %w", id, err)
	}

	ticket.Status = status
	ticket.AnalyzerStatus = analyzerStatus
	ticket.AnalyzerResult = result

	s.logger.Info("Ticket analyzed",
		zap.String("ticket_id", id),
		zap.String("status", string(status)),
		zap.String("analyzer_status", string(analyzerStatus)))

	return ticket, nil
}

// Get retrieves a ticket by id
func (s *TicketService) Get(ctx context.Context, id string) (*Ticket, error) {
	return s.store.Get(ctx, id)
}

// List returns all tickets, newest first
func (s *TicketService) List(ctx context.Context) ([]*Ticket, error) {
	return s.store.List(ctx)
}

func (s *TicketService) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[id]; ok {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *TicketService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
