// Package postgres implements the ticket store on a pgx connection pool
// with startup schema creation and a connection health check.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/config"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS tickets (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	subcategory TEXT NOT NULL DEFAULT '',
	studio_id   TEXT NOT NULL DEFAULT '',
	member_id   TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	routing     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

// Store is the PostgreSQL-backed ticket store.
type Store struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewStore connects to PostgreSQL, ensures the tickets table exists, and
// returns the store. The caller decides whether connection failure is fatal
// or grounds for falling back to the in-memory store.
func NewStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConn
	poolConfig.MinConns = cfg.Database.MinConn
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.Database.ConnectTimeout

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if pingErr := pool.Ping(connectCtx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	store := &Store{pool: pool, logger: logger}
	if schemaErr := store.ensureSchema(ctx); schemaErr != nil {
		pool.Close()
		return nil, schemaErr
	}

	logger.Info("Successfully connected to PostgreSQL ticket store")
	return store, nil
}

// ensureSchema creates the tickets table when it does not exist.
func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to ensure tickets schema: %w", err)
	}
	return nil
}

// CreateTicket persists a new ticket.
func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	routing, err := json.Marshal(ticket.Routing)
	if err != nil {
		return fmt.Errorf("failed to marshal routing decision: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO tickets
			(id, title, description, category, subcategory, studio_id, member_id,
			 status, priority, routing, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		ticket.ID, ticket.Title, ticket.Description, ticket.Category,
		ticket.Subcategory, ticket.StudioID, ticket.MemberID,
		string(ticket.Status), string(ticket.Priority), routing,
		ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	s.logger.WithField("ticket_id", ticket.ID).Debug("Ticket persisted")
	return nil
}

// GetTicket returns the ticket with the given id.
func (s *Store) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, title, description, category, subcategory, studio_id, member_id,
				status, priority, routing, created_at, updated_at
		 FROM tickets WHERE id = $1`, id)

	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return ticket, nil
}

// ListTickets returns tickets ordered by creation time descending.
func (s *Store) ListTickets(ctx context.Context, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, category, subcategory, studio_id, member_id,
				status, priority, routing, created_at, updated_at
		 FROM tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		ticket, scanErr := scanTicket(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan ticket row: %w", scanErr)
		}
		tickets = append(tickets, *ticket)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate ticket rows: %w", rowsErr)
	}

	return tickets, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.pool.Ping(pingCtx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// scanTicket reads one ticket row, decoding the routing decision JSON.
func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var (
		ticket   models.Ticket
		status   string
		priority string
		routing  []byte
	)

	err := row.Scan(
		&ticket.ID, &ticket.Title, &ticket.Description, &ticket.Category,
		&ticket.Subcategory, &ticket.StudioID, &ticket.MemberID,
		&status, &priority, &routing, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ticket.Status = models.TicketStatus(status)
	ticket.Priority = models.Priority(priority)
	if unmarshalErr := json.Unmarshal(routing, &ticket.Routing); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode routing decision: %w", unmarshalErr)
	}

	return &ticket, nil
}
