package store

import (
	"fmt"
	"time"
)

// maxReasonSize caps the stored failure detail. Decision rows record why a
// prompt fell back, never the prompt itself.
const maxReasonSize = 1024

// Decision is one audit row for a guard request: what came in, which way
// it went out. Prompt and message text are deliberately not stored.
type Decision struct {
	ID           int64
	RequestID    string
	ChatID       string
	Path         string
	Outcome      string
	Reason       string
	MessageCount int
	CreatedAt    int64
}

// AddDecision records the outcome of a guard request. Truncates reason to 1KB.
func (db *DB) AddDecision(d *Decision) error {
	if len(d.Reason) > maxReasonSize {
		d.Reason = d.Reason[:maxReasonSize]
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().UnixMilli()
	}

	res, err := db.Exec(`
		INSERT INTO decisions (request_id, chat_id, path, outcome, reason, message_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.RequestID, d.ChatID, d.Path, d.Outcome, d.Reason, d.MessageCount, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("add decision: %w", err)
	}
	d.ID, _ = res.LastInsertId()
	return nil
}

// GetRecentDecisions returns the most recent decisions, newest first.
func (db *DB) GetRecentDecisions(limit int) ([]Decision, error) {
	rows, err := db.Query(`
		SELECT id, request_id, chat_id, path, outcome, reason, message_count, created_at
		FROM decisions ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent decisions: %w", err)
	}
	defer rows.Close()

	var decs []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.RequestID, &d.ChatID, &d.Path, &d.Outcome, &d.Reason, &d.MessageCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decs = append(decs, d)
	}
	return decs, rows.Err()
}

// CountDecisionsByOutcome returns decision counts keyed by outcome.
func (db *DB) CountDecisionsByOutcome() (map[string]int, error) {
	rows, err := db.Query(`
		SELECT outcome, COUNT(*) FROM decisions GROUP BY outcome
	`)
	if err != nil {
		return nil, fmt.Errorf("count decisions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan decision count: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
