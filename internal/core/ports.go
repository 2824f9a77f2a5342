package core

import (
	"context"
)

// TicketStore defines the interface for durable ticket storage
type TicketStore interface {
	// Create persists a new ticket and returns its assigned id
	Create(ctx context.Context, ticket *Ticket) (string, error)

	// Get retrieves a ticket by id
	Get(ctx context.Context, id string) (*Ticket, error)

	// List returns all tickets, newest first
	List(ctx context.Context) ([]*Ticket, error)

	// Update atomically writes the lifecycle state and analysis outcome of one ticket
	Update(ctx context.Context, id string, status TicketStatus, analyzerStatus AnalyzerStatus, result *AnalyzerResult) error
}

// AnalyzerClient defines the interface for the remote header analyzer.
// Analyze performs exactly one remote call and always reports a typed
// outcome; transport failures are carried in the outcome, never raised.
type AnalyzerClient interface {
	Analyze(ctx context.Context, rawHeaders string) RemoteAnalysis
}
