// Package users persists user profiles, conversation modes, daily streaks
// and the per-day message counters behind the trial limit.
package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Conversation modes.  A user is always in exactly one; new users start in
// talk.
const (
	ModeTalk     = "talk"
	ModeSupport  = "support"
	ModeMotivate = "motivate"
)

// msk is the fixed UTC+3 zone the service phrases its days in.  Streaks and
// daily counters roll over at MSK midnight.
var msk = time.FixedZone("MSK", 3*60*60)

// DayKey returns the MSK calendar day of t as YYYY-MM-DD, the key format of
// the message_counts table.
func DayKey(t time.Time) string {
	return t.In(msk).Format("2006-01-02")
}

// User is one known conversation partner.
type User struct {
	ID        string
	Mode      string
	RoomID    string
	CreatedAt time.Time
}

// Store persists and retrieves users.
type Store struct {
	db *sql.DB
}

// NewStore creates a users Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ensure inserts the user if unknown and records the room the conversation
// happens in.  An existing user keeps their mode; the room is refreshed so
// the daily push follows the user's current DM.
func (s *Store) Ensure(ctx context.Context, userID, roomID string) (*User, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, mode, room_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET room_id = excluded.room_id
	`, userID, ModeTalk, roomID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("users: ensure %s: %w", userID, err)
	}
	return s.Get(ctx, userID)
}

// Get retrieves a user by ID.
func (s *Store) Get(ctx context.Context, userID string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, mode, room_id, created_at FROM users WHERE user_id = ?
	`, userID).Scan(&u.ID, &u.Mode, &u.RoomID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("users: not found: %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("users: get %s: %w", userID, err)
	}
	return u, nil
}

// SetMode switches the user's conversation mode.
func (s *Store) SetMode(ctx context.Context, userID, mode string) error {
	switch mode {
	case ModeTalk, ModeSupport, ModeMotivate:
	default:
		return fmt.Errorf("users: unknown mode %q", mode)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET mode = ? WHERE user_id = ?", mode, userID)
	if err != nil {
		return fmt.Errorf("users: set mode for %s: %w", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("users: not found: %s", userID)
	}
	return nil
}

// List returns all known users, oldest first.  The daily push iterates this.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, mode, room_id, created_at FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Mode, &u.RoomID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("users: scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: iterate users: %w", err)
	}
	return out, nil
}

// TouchStreak records activity on the MSK day of now and returns the updated
// streak.  Same-day activity leaves the streak unchanged, consecutive days
// extend it, a gap resets it to 1.
func (s *Store) TouchStreak(ctx context.Context, userID string, now time.Time) (current, best int, err error) {
	today := DayKey(now)
	yesterday := DayKey(now.AddDate(0, 0, -1))

	var lastDay string
	err = s.db.QueryRowContext(ctx,
		"SELECT current, best, last_day FROM streaks WHERE user_id = ?", userID,
	).Scan(&current, &best, &lastDay)
	switch {
	case err == sql.ErrNoRows:
		current, best, lastDay = 0, 0, ""
	case err != nil:
		return 0, 0, fmt.Errorf("users: get streak for %s: %w", userID, err)
	}

	switch lastDay {
	case today:
		return current, best, nil
	case yesterday:
		current++
	default:
		current = 1
	}
	if current > best {
		best = current
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current, best, last_day)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current = excluded.current,
			best = excluded.best,
			last_day = excluded.last_day
	`, userID, current, best, today)
	if err != nil {
		return 0, 0, fmt.Errorf("users: touch streak for %s: %w", userID, err)
	}
	return current, best, nil
}

// Streak returns the user's streak without touching it.  Unknown users have
// a zero streak.
func (s *Store) Streak(ctx context.Context, userID string) (current, best int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT current, best FROM streaks WHERE user_id = ?", userID,
	).Scan(&current, &best)
	if err == sql.ErrNoRows {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("users: get streak for %s: %w", userID, err)
	}
	return current, best, nil
}

// IncrementMessageCount bumps the user's counter for the MSK day of now and
// returns the new value.  The trial limit compares against this.
func (s *Store) IncrementMessageCount(ctx context.Context, userID string, now time.Time) (int, error) {
	day := DayKey(now)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_counts (user_id, day, count)
		VALUES (?, ?, 1)
		ON CONFLICT(user_id, day) DO UPDATE SET count = count + 1
	`, userID, day)
	if err != nil {
		return 0, fmt.Errorf("users: increment count for %s: %w", userID, err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT count FROM message_counts WHERE user_id = ? AND day = ?", userID, day,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("users: read count for %s: %w", userID, err)
	}
	return count, nil
}
