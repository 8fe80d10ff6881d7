// Package diary persists conversation turns and renders the daily summary.
//
// The diary is the only place full message text is stored; log lines carry
// at most a short redacted snippet.
package diary

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bdobrica/Tomo/common/redact"
)

// snippetMaxRunes caps each summary bullet's text.
const snippetMaxRunes = 90

// summaryMaxEntries caps the number of bullets in a daily summary.
const summaryMaxEntries = 10

// msk is the fixed UTC+3 zone summaries phrase their timestamps in.
var msk = time.FixedZone("MSK", 3*60*60)

// Turn is one recorded message of a conversation.
type Turn struct {
	ID     string
	UserID string
	TS     time.Time
	Role   string // "user" or "assistant"
	Text   string
}

// Store persists and retrieves diary turns.
type Store struct {
	db *sql.DB
}

// NewStore creates a diary Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// AddTurn records one message.  ts is stored as given; callers pass the
// receive time so replayed transport events keep their original order.
func (s *Store) AddTurn(ctx context.Context, userID, role, text string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO diary (id, user_id, ts, role, text) VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), userID, ts.UTC(), role, text)
	if err != nil {
		return fmt.Errorf("diary: add turn for %s: %w", userID, err)
	}
	return nil
}

// RecentTurns returns the user's last n turns ordered oldest first, the
// order the generation prompt embeds them in.
func (s *Store) RecentTurns(ctx context.Context, userID string, n int) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, ts, role, text FROM diary
		WHERE user_id = ?
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("diary: recent turns for %s: %w", userID, err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.TS, &t.Role, &t.Text); err != nil {
			return nil, fmt.Errorf("diary: scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diary: iterate turns: %w", err)
	}

	// The query returns newest first; flip to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DailySummary renders the user's own messages of the last 24 hours as a
// digest, newest first, capped at summaryMaxEntries.  Each line carries the
// MSK time and a truncated snippet of the text.
func (s *Store) DailySummary(ctx context.Context, userID string, now time.Time) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, text FROM diary
		WHERE user_id = ? AND role = 'user' AND ts >= ?
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, userID, now.UTC().Add(-24*time.Hour), summaryMaxEntries)
	if err != nil {
		return "", fmt.Errorf("diary: daily summary for %s: %w", userID, err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var ts time.Time
		var text string
		if err := rows.Scan(&ts, &text); err != nil {
			return "", fmt.Errorf("diary: scan summary row: %w", err)
		}
		lines = append(lines, fmt.Sprintf("%s — %s",
			ts.In(msk).Format("15:04"), redact.Snippet(text, snippetMaxRunes)))
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("diary: iterate summary rows: %w", err)
	}

	if len(lines) == 0 {
		return "За последние сутки записей нет.", nil
	}
	return "Краткий дневник за сутки:\n" + strings.Join(lines, "\n"), nil
}
