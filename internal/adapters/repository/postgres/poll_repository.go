package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

// SQLSTATE for "function does not exist"; signals that the atomic update
// path is unavailable on this database.
const pqUndefinedFunction = "42883"

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (id, title, description, is_public, allow_multiple_votes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.IsPublic, poll.AllowMultipleVotes,
		poll.OwnerID, poll.CreatedAt, poll.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (r *pollRepository) SaveOptions(ctx context.Context, pollID uuid.UUID, options []domain.PollOption) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO poll_options (id, poll_id, text, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		if _, err := stmt.ExecContext(ctx, opt.ID, pollID, opt.Text, opt.Position, opt.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `
		SELECT id, title, description, is_public, allow_multiple_votes, user_id, created_at, updated_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.IsPublic, &poll.AllowMultipleVotes,
		&poll.OwnerID, &poll.CreatedAt, &poll.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Poll, error) {
	query := `
		SELECT id, title, description, is_public, allow_multiple_votes, user_id, created_at, updated_at
		FROM polls
		WHERE id = $1 AND user_id = $2
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.IsPublic, &poll.AllowMultipleVotes,
		&poll.OwnerID, &poll.CreatedAt, &poll.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent and foreign polls are indistinguishable on purpose.
			return nil, domain.ErrPollNotOwned
		}
		return nil, fmt.Errorf("failed to get owned poll: %w", err)
	}

	return &poll, nil
}

func (r *pollRepository) ReplaceAtomic(ctx context.Context, poll *domain.Poll) error {
	type optionRow struct {
		ID       uuid.UUID `json:"id"`
		Text     string    `json:"text"`
		Position int       `json:"position"`
	}
	rows := make([]optionRow, len(poll.Options))
	for i, opt := range poll.Options {
		rows[i] = optionRow{ID: opt.ID, Text: opt.Text, Position: opt.Position}
	}
	optionsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	query := `SELECT update_poll_with_options($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.IsPublic, poll.AllowMultipleVotes, optionsJSON,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUndefinedFunction {
			return domain.ErrProcedureMissing
		}
		return fmt.Errorf("failed to replace poll atomically: %w", err)
	}
	return nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, is_public = $4, allow_multiple_votes = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.IsPublic, poll.AllowMultipleVotes, poll.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return nil
}

func (r *pollRepository) DeleteOptions(ctx context.Context, pollID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll options: %w", err)
	}
	return nil
}

func (r *pollRepository) Delete(ctx context.Context, pollID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	query := `
		SELECT id, poll_id, text, position, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
