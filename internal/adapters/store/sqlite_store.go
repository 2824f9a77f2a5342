package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the TicketStore interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite ticket store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			submitted_at TIMESTAMP,
			reporter TEXT,
			title TEXT,
			body TEXT,
			urls TEXT,
			headers TEXT,
			status TEXT,
			analyzer_status TEXT,
			analyzer_result TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on submitted_at for newest-first listing
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_submitted_at ON tickets(submitted_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Create persists a new ticket and returns its assigned id
func (s *SQLiteStore) Create(ctx context.Context, ticket *core.Ticket) (string, error) {
	ticket.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (id, submitted_at, reporter, title, body, urls, headers, status, analyzer_status, analyzer_result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)
	`, ticket.ID, ticket.SubmittedAt.Format(time.RFC3339Nano), ticket.Reporter, ticket.Title, ticket.Body,
		strings.Join(ticket.URLs, ","), ticket.Headers, string(ticket.Status))

	if err != nil {
		return "", fmt.Errorf("failed to insert ticket: %w", err)
	}
	return ticket.ID, nil
}

// Get retrieves a ticket by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*core.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, submitted_at, reporter, title, body, urls, headers, status, analyzer_status, analyzer_result
		FROM tickets WHERE id = ?
	`, id)

	ticket, err := scanTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return ticket, nil
}

// List returns all tickets, newest first
func (s *SQLiteStore) List(ctx context.Context) ([]*core.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, submitted_at, reporter, title, body, urls, headers, status, analyzer_status, analyzer_result
		FROM tickets ORDER BY submitted_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*core.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ticket rows: %w", err)
	}
	return tickets, nil
}

// Update atomically writes the lifecycle state and analysis outcome of one ticket
func (s *SQLiteStore) Update(ctx context.Context, id string, status core.TicketStatus, analyzerStatus core.AnalyzerStatus, result *core.AnalyzerResult) error {
	resultJSON, err := marshalResult(result)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?, analyzer_status = ?, analyzer_result = ? WHERE id = ?
	`, string(status), nullableStatus(analyzerStatus), resultJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected for ticket update", zap.Error(err))
		return nil
	}
	if affected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Stop closes the database connection
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*core.Ticket, error) {
	var ticket core.Ticket
	var submittedAt, urls string
	var analyzerStatus, analyzerResult sql.NullString

	err := row.Scan(&ticket.ID, &submittedAt, &ticket.Reporter, &ticket.Title, &ticket.Body,
		&urls, &ticket.Headers, &ticket.Status, &analyzerStatus, &analyzerResult)
	if err != nil {
		return nil, err
	}

	ticket.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse submitted_at timestamp: %w", err)
	}
	if urls != "" {
		ticket.URLs = strings.Split(urls, ",")
	}
	if analyzerStatus.Valid {
		ticket.AnalyzerStatus = core.AnalyzerStatus(analyzerStatus.String)
	}
	if analyzerResult.Valid {
		var result core.AnalyzerResult
		if err := json.Unmarshal([]byte(analyzerResult.String), &result); err != nil {
			return nil, fmt.Errorf("failed to decode analyzer result: %w", err)
		}
		ticket.AnalyzerResult = &result
	}
	return &ticket, nil
}

func marshalResult(result *core.AnalyzerResult) (any, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyzer result: %w", err)
	}
	return string(data), nil
}

func nullableStatus(status core.AnalyzerStatus) any {
	if status == "" {
		return nil
	}
	return string(status)
}
