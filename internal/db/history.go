package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/evidence-matcher/internal/types"
)

const historyColumns = `id, user_id, title, parameters, project_list, evidence, created_at`

// SaveHistory inserts a saved run and returns it with ID and CreatedAt set.
func (db *DB) SaveHistory(ctx context.Context, entry *types.HistoryEntry) (*types.HistoryEntry, error) {
	params, projects, evidence, err := marshalEntry(entry)
	if err != nil {
		return nil, err
	}

	saved := *entry
	err = db.pool.QueryRow(ctx,
		`INSERT INTO history (user_id, title, parameters, project_list, evidence)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		entry.UserID, entry.Title, params, projects, evidence,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	return &saved, nil
}

// ListHistory returns saved runs newest first. A nil userID lists every
// run; otherwise only that user's runs are returned.
func (db *DB) ListHistory(ctx context.Context, userID *uuid.UUID) ([]types.HistorySummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, parameters, created_at FROM history
		 WHERE $1::uuid IS NULL OR user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	summaries := []types.HistorySummary{}
	for rows.Next() {
		var s types.HistorySummary
		var params []byte
		if err := rows.Scan(&s.ID, &s.Title, &params, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal(params, &s.Parameters); err != nil {
			return nil, fmt.Errorf("failed to decode parameters for %s: %w", s.ID, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return summaries, nil
}

// GetHistory returns a saved run, or nil if it does not exist.
func (db *DB) GetHistory(ctx context.Context, id uuid.UUID) (*types.HistoryEntry, error) {
	var (
		entry                      types.HistoryEntry
		params, projects, evidence []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT `+historyColumns+` FROM history WHERE id = $1`, id,
	).Scan(&entry.ID, &entry.UserID, &entry.Title, &params, &projects, &evidence, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history %s: %w", id, err)
	}

	if err := unmarshalEntry(&entry, params, projects, evidence); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEvidence returns only the matches of a saved run. A missing run
// yields an empty collection.
func (db *DB) GetEvidence(ctx context.Context, id uuid.UUID) (types.MatchCollection, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx, `SELECT evidence FROM history WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.MatchCollection{}, nil
		}
		return nil, fmt.Errorf("failed to get evidence %s: %w", id, err)
	}

	evidence := types.MatchCollection{}
	if err := json.Unmarshal(raw, &evidence); err != nil {
		return nil, fmt.Errorf("failed to decode evidence for %s: %w", id, err)
	}
	return evidence, nil
}

// DeleteHistory removes a saved run. It reports whether a row was deleted.
func (db *DB) DeleteHistory(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM history WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete history %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func marshalEntry(entry *types.HistoryEntry) (params, projects, evidence []byte, err error) {
	if params, err = json.Marshal(entry.Parameters); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal parameters: %w", err)
	}
	if projects, err = json.Marshal(entry.ProjectList); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal project list: %w", err)
	}
	ev := entry.Evidence
	if ev == nil {
		ev = types.MatchCollection{}
	}
	if evidence, err = json.Marshal(ev); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal evidence: %w", err)
	}
	return params, projects, evidence, nil
}

func unmarshalEntry(entry *types.HistoryEntry, params, projects, evidence []byte) error {
	if err := json.Unmarshal(params, &entry.Parameters); err != nil {
		return fmt.Errorf("failed to decode parameters for %s: %w", entry.ID, err)
	}
	if err := json.Unmarshal(projects, &entry.ProjectList); err != nil {
		return fmt.Errorf("failed to decode project list for %s: %w", entry.ID, err)
	}
	entry.Evidence = types.MatchCollection{}
	if err := json.Unmarshal(evidence, &entry.Evidence); err != nil {
		return fmt.Errorf("failed to decode evidence for %s: %w", entry.ID, err)
	}
	return nil
}
