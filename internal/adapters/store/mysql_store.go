package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abusehq/gatekeeper/internal/core"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const mysqlTimeFormat = "2006-01-02 15:04:05.000000"

// MySQLStore is a MySQL implementation of the TicketStore interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL ticket store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tickets (
			id VARCHAR(36) PRIMARY KEY,
			submitted_at TIMESTAMP(6),
			reporter VARCHAR(255),
			title TEXT,
			body MEDIUMTEXT,
			urls TEXT,
			headers MEDIUMTEXT,
			status VARCHAR(32),
			analyzer_status VARCHAR(32),
			analyzer_result MEDIUMTEXT,
			INDEX idx_submitted_at (submitted_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// Create persists a new ticket and returns its assigned id
func (s *MySQLStore) Create(ctx context.Context, ticket *core.Ticket) (string, error) {
	ticket.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (id, submitted_at, reporter, title, body, urls, headers, status, analyzer_status, analyzer_result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)
	`, ticket.ID, ticket.SubmittedAt.UTC().Format(mysqlTimeFormat), ticket.Reporter, ticket.Title, ticket.Body,
		strings.Join(ticket.URLs, ","), ticket.Headers, string(ticket.Status))

	if err != nil {
		return "", fmt.Errorf("failed to insert ticket: %w", err)
	}
	return ticket.ID, nil
}

// Get retrieves a ticket by id
func (s *MySQLStore) Get(ctx context.Context, id string) (*core.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, submitted_at, reporter, title, body, urls, headers, status, analyzer_status, analyzer_result
		FROM tickets WHERE id = ?
	`, id)

	ticket, err := scanMySQLTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return ticket, nil
}

// List returns all tickets, newest first
func (s *MySQLStore) List(ctx context.Context) ([]*core.Ticket, error) {
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
		ticket, err := scanMySQLTicket(rows)
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
func (s *MySQLStore) Update(ctx context.Context, id string, status core.TicketStatus, analyzerStatus core.AnalyzerStatus, result *core.AnalyzerResult) error {
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
func (s *MySQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}

func scanMySQLTicket(row rowScanner) (*core.Ticket, error) {
	var ticket core.Ticket
	var submittedAt, urls string
	var analyzerStatus, analyzerResult sql.NullString

	err := row.Scan(&ticket.ID, &submittedAt, &ticket.Reporter, &ticket.Title, &ticket.Body,
		&urls, &ticket.Headers, &ticket.Status, &analyzerStatus, &analyzerResult)
	if err != nil {
		return nil, err
	}

	ticket.SubmittedAt, err = time.Parse(mysqlTimeFormat, submittedAt)
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
