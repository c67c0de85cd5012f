package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	sqlSelectTemplate = `
        SELECT id, name, fields, metadata
        FROM form_templates
        WHERE id = $1`
	sqlSelectAnswers = `
        SELECT answers
        FROM form_answers
        WHERE school_id = $1 AND user_id = $2`
	sqlSelectAccount = `
        SELECT COALESCE(email, ''), COALESCE(username, '')
        FROM school_accounts
        WHERE school_id = $1 AND user_id = $2`
)

// DBPool abstracts pgxpool.Pool so the store can be tested with pgxmock.
type DBPool interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore reads templates, answers and accounts from PostgreSQL.
type PostgresStore struct {
	pool DBPool
	log  *logrus.Entry
}

// NewPostgresStore creates a store and verifies the connection.
func NewPostgresStore(ctx context.Context, pool DBPool, logger *logrus.Logger) (*PostgresStore, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{
		pool: pool,
		log:  logger.WithField("component", "store"),
	}, nil
}

// Connect opens a pgx pool for dsn.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context, id string) (*entities.Template, error) {
	var (
		tmpl     entities.Template
		fields   []byte
		metadata []byte
	)
	err := s.pool.QueryRow(ctx, sqlSelectTemplate, id).Scan(&tmpl.ID, &tmpl.Name, &fields, &metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query template %s: %w", id, err)
	}

	if err := json.Unmarshal(fields, &tmpl.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields of template %s: %w", id, err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tmpl.Metadata); err != nil {
			s.log.WithError(err).WithField("template_id", id).Warn("Ignoring undecodable template metadata")
			tmpl.Metadata = nil
		}
	}
	return &tmpl, nil
}

func (s *PostgresStore) GetAnswers(ctx context.Context, schoolID, userID string) (map[string]any, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, sqlSelectAnswers, schoolID, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}

	answers := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
	}
	if answers == nil {
		answers = make(map[string]any)
	}
	return answers, nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, schoolID, userID string) (*entities.AccountRecord, error) {
	var account entities.AccountRecord
	err := s.pool.QueryRow(ctx, sqlSelectAccount, schoolID, userID).Scan(&account.Email, &account.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &account, nil
}

var _ interfaces.TemplateStore = (*PostgresStore)(nil)
