package core

import (
	"time"
)

// TicketStatus is the lifecycle state of a ticket
type TicketStatus string

const (
	// TicketStatusQueued is the initial state of a newly created ticket
	TicketStatusQueued TicketStatus = "queued"
	// TicketStatusAnalyzing means an analysis run is in progress
	TicketStatusAnalyzing TicketStatus = "analyzing"
	// TicketStatusAnalyzed is the terminal state carrying a computed verdict
	TicketStatusAnalyzed TicketStatus = "analyzed"
	// TicketStatusError is the terminal state for tickets whose headers could not be analyzed
	TicketStatusError TicketStatus = "analyzer_error"
)

// Overall verdict values derived from SPF/DKIM/DMARC results
const (
	VerdictPass    = "pass"
	VerdictFail    = "fail"
	VerdictUnknown = "unknown"
)

// AnalyzerStatus is the terminal outcome of an analysis run. It mirrors the
// verdict's overall value, with "analyzer_error" for tickets that could not
// be analyzed at all. Empty until the lifecycle reaches a terminal state.
type AnalyzerStatus string

const (
	AnalyzerStatusPass    AnalyzerStatus = VerdictPass
	AnalyzerStatusFail    AnalyzerStatus = VerdictFail
	AnalyzerStatusUnknown AnalyzerStatus = VerdictUnknown
	AnalyzerStatusError   AnalyzerStatus = "analyzer_error"
)

// AuthMechanism identifies an email authentication mechanism
type AuthMechanism string

const (
	MechanismSPF   AuthMechanism = "spf"
	MechanismDKIM  AuthMechanism = "dkim"
	MechanismDMARC AuthMechanism = "dmarc"
)

// AuthSignal is a single (mechanism, result) token extracted from an
// Authentication-Results header block. Position is the byte offset of the
// token in the raw header text, used to resolve conflicts in document order.
type AuthSignal struct {
	Mechanism AuthMechanism
	Result    string
	Position  int
}

// Verdict is the trust classification computed from the extracted signals.
// A nil mechanism result means the mechanism was not found in the headers.
type Verdict struct {
	SPF     *string `json:"spf"`
	DKIM    *string `json:"dkim"`
	DMARC   *string `json:"dmarc"`
	Overall string  `json:"overall"`
}

// AnalyzerResult is the structured analysis payload stored with a ticket.
// HTML holds the remote analyzer's rendered output when the remote call
// succeeded. Error carries a human-readable cause when the remote call
// failed or the headers could not be scanned. Verdict is absent only when
// no verdict could be computed.
type AnalyzerResult struct {
	HTML    *string  `json:"html"`
	Error   string   `json:"error,omitempty"`
	Verdict *Verdict `json:"verdict,omitempty"`
}

// Ticket represents a reported-email record
type Ticket struct {
	ID             string          `json:"id"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	Reporter       string          `json:"reporter"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	URLs           []string        `json:"urls"`
	Headers        string          `json:"headers,omitempty"`
	Status         TicketStatus    `json:"status"`
	AnalyzerStatus AnalyzerStatus  `json:"analyzer_status,omitempty"`
	AnalyzerResult *AnalyzerResult `json:"analyzer_result,omitempty"`
}

// TicketSubmission is the inbound shape accepted by the ingestion boundary
type TicketSubmission struct {
	Reporter string   `json:"reporter"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	URLs     []string `json:"urls"`
	Headers  string   `json:"headers"`
}

// RemoteAnalysis is the typed outcome of one remote analyzer call.
// Err is empty on success and carries the transport failure cause otherwise.
type RemoteAnalysis struct {
	HTML string
	Err  string
}

// OK reports whether the remote call succeeded
func (r RemoteAnalysis) OK() bool {
	return r.Err == ""
}
