package ports

import (
	"context"

	"github.com/abusehq/gatekeeper/internal/core"
)

// IngestServer defines the interface for the ticket ingestion surface
type IngestServer interface {
	// Submit accepts a ticket submission and runs one analysis over it
	Submit(ctx context.Context, sub *core.TicketSubmission) (*core.Ticket, error)

	// Start starts the ingestion server
	Start() error

	// Stop stops the ingestion server
	Stop() error
}
