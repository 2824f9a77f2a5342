package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/abusehq/gatekeeper/internal/adapters/store"
	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/abusehq/gatekeeper/internal/reporters"
	"go.uber.org/zap"
)

// Server is the HTTP ingestion surface. It accepts ticket submissions,
// runs one synchronous analysis per submission and exposes stored tickets
// for the dashboard to read.
type Server struct {
	service    *core.TicketService
	validator  *reporters.Validator
	logger     *zap.Logger
	listenAddr string
	httpServer *http.Server
}

// NewServer creates a new ingestion HTTP server
func NewServer(
	service *core.TicketService,
	validator *reporters.Validator,
	logger *zap.Logger,
	listenAddr string,
) *Server {
	return &Server{
		service:    service,
		validator:  validator,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// submitResponse is the acknowledgement returned for a new ticket
type submitResponse struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

// ticketSummary is the list-view shape; headers and the full analysis
// payload are only exposed on the single-ticket endpoint
type ticketSummary struct {
	ID             string    `json:"id"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Reporter       string    `json:"reporter"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	URLs           []string  `json:"urls"`
	Status         string    `json:"status"`
	AnalyzerStatus string    `json:"analyzer_status,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /tickets", s.handleSubmit)
	mux.HandleFunc("GET /tickets", s.handleList)
	mux.HandleFunc("GET /tickets/{id}", s.handleGet)

	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("Ingestion server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("HTTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the HTTP server, draining in-flight requests
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Submit accepts a ticket submission and runs one analysis over it.
// This is mainly used for testing or direct calls from other adapters.
func (s *Server) Submit(ctx context.Context, sub *core.TicketSubmission) (*core.Ticket, error) {
	return s.service.Submit(ctx, sub)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"msg": "gatekeeper ok"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub core.TicketSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(sub.Reporter); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sub.Headers == "" {
		s.writeError(w, http.StatusBadRequest, "headers must not be empty")
		return
	}

	ticket, err := s.service.Submit(r.Context(), &sub)
	if err != nil {
		if errors.Is(err, core.ErrAnalysisInFlight) {
			s.writeError(w, http.StatusConflict, "analysis already in flight")
			return
		}
		s.logger.Error("Failed to process ticket submission",
			zap.Error(err),
			zap.String("reporter", sub.Reporter))
		s.writeError(w, http.StatusInternalServerError, "failed to process ticket")
		return
	}

	s.writeJSON(w, http.StatusOK, submitResponse{
		TicketID: ticket.ID,
		Status:   string(ticket.AnalyzerStatus),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.service.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list tickets", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}

	summaries := make([]ticketSummary, 0, len(tickets))
	for _, t := range tickets {
		urls := t.URLs
		if urls == nil {
			urls = []string{}
		}
		summaries = append(summaries, ticketSummary{
			ID:             t.ID,
			SubmittedAt:    t.SubmittedAt,
			Reporter:       t.Reporter,
			Title:          t.Title,
			Body:           t.Body,
			URLs:           urls,
			Status:         string(t.Status),
			AnalyzerStatus: string(t.AnalyzerStatus),
		})
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ticket, err := s.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrTicketNotFound) {
			s.writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		s.logger.Error("Failed to load ticket", zap.Error(err), zap.String("ticket_id", id))
		s.writeError(w, http.StatusInternalServerError, "failed to load ticket")
		return
	}
	s.writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
