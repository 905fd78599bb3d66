// Package pgstore provides a PostgreSQL implementation of TaskStore.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

const idPrefix = "T"

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id           BIGSERIAL PRIMARY KEY,
    assignee     TEXT NOT NULL,
    content      TEXT NOT NULL,
    deadline     TEXT NOT NULL DEFAULT '',
    room         TEXT NOT NULL DEFAULT '',
    source_date  TEXT NOT NULL DEFAULT '',
    kind         TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'pending',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ,
    UNIQUE (assignee, content)
)`

const insertTask = `
INSERT INTO tasks (assignee, content, deadline, room, source_date, kind, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (assignee, content) DO NOTHING
RETURNING id, created_at`

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connect opens a connection pool and pings it.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 4
	poolCfg.MinConns = 0
	poolCfg.MaxConnIdleTime = time.Minute

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("db", poolCfg.ConnConfig.Database),
	)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Store implements domain.TaskStore on a tasks table.
type Store struct {
	db     DB
	logger *zap.Logger
}

// Ensure Store implements TaskStore.
var _ domain.TaskStore = (*Store)(nil)

// New creates a store on db.
func New(db DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Initialize creates the tasks table if it doesn't exist.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// List retrieves tasks matching the filter in insertion order.
func (s *Store) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	query, args := listQuery(filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var (
			t    domain.Task
			id   int64
			kind string
			st   string
		)
		if err := rows.Scan(&id, &t.Assignee, &t.Content, &t.Deadline, &t.Room,
			&t.SourceDate, &kind, &st, &t.Created); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.ID = FormatID(id)
		t.Kind = domain.Kind(kind)
		t.Status = domain.Status(st)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// AddNew inserts tasks in one transaction. Rows hitting the (assignee, content)
// constraint are skipped.
func (s *Store) AddNew(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var added []domain.Task
	for _, t := range tasks {
		var id int64
		err := tx.QueryRow(ctx, insertTask,
			t.Assignee, t.Content, t.Deadline, t.Room, t.SourceDate,
			string(t.Kind), string(domain.StatusPending),
		).Scan(&id, &t.Created)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			s.logger.Error("Failed to insert task",
				zap.Error(err),
				zap.String("assignee", t.Assignee),
			)
			return nil, fmt.Errorf("insert task: %w", err)
		}
		t.ID = FormatID(id)
		t.Status = domain.StatusPending
		added = append(added, t)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("Tasks inserted",
		zap.Int("requested", len(tasks)),
		zap.Int("added", len(added)),
	)
	return added, nil
}

// Complete marks a pending task completed.
func (s *Store) Complete(ctx context.Context, id string) error {
	n, ok := ParseID(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE tasks SET status = $2, completed_at = NOW() WHERE id = $1 AND status = $3`,
		n, string(domain.StatusCompleted), string(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var status string
	err = s.db.QueryRow(ctx, `SELECT status FROM tasks WHERE id = $1`, n).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return fmt.Errorf("%w: %s is %s", domain.ErrInvalidTransition, id, domain.Status(status).Display())
}

// Clear removes every task.
func (s *Store) Clear(ctx context.Context) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks`)
	if err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	s.logger.Info("Tasks cleared", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

// FormatID renders a row ID the way the JSON store does (T<n>).
func FormatID(id int64) string {
	return idPrefix + strconv.FormatInt(id, 10)
}

// ParseID reverses FormatID. A bare number is accepted too.
func ParseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(id), idPrefix), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func listQuery(filter domain.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Assignee != "" {
		args = append(args, filter.Assignee)
		conds = append(conds, "assignee = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, assignee, content, deadline, room, source_date, kind, status, created_at FROM tasks`)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY id")
	return b.String(), args
}
