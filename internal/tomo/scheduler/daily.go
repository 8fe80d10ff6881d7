// Package scheduler contains the daily check-in loop.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/bdobrica/Tomo/internal/tomo/users"
)

// msk is the fixed UTC+3 zone the daily hour is phrased in.
var msk = time.FixedZone("MSK", 3*60*60)

// Sender delivers one push message to a room.
type Sender interface {
	SendNotice(ctx context.Context, roomID, text string) error
}

// UserLister enumerates the users to push to.
type UserLister interface {
	List(ctx context.Context) ([]*users.User, error)
}

// Config configures the daily loop.
type Config struct {
	// Hour is the MSK hour of day the push fires at. Defaults to 20.
	Hour int

	// Compose renders the push text for one user.  An empty result skips
	// the user.
	Compose func(ctx context.Context, u *users.User) string

	// Now supplies the current time; tests inject fixed clocks.
	Now func() time.Time

	Logger *slog.Logger
}

// Daily sends every known user one check-in message per day at a fixed
// MSK hour.
type Daily struct {
	sender Sender
	lister UserLister
	cfg    Config
}

// New creates a Daily scheduler.
func New(sender Sender, lister UserLister, cfg Config) *Daily {
	if cfg.Hour <= 0 || cfg.Hour > 23 {
		cfg.Hour = 20
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Daily{sender: sender, lister: lister, cfg: cfg}
}

// Run starts the daily loop. Blocks until ctx is cancelled.
func (d *Daily) Run(ctx context.Context) {
	d.cfg.Logger.Info("daily scheduler starting", "hour_msk", d.cfg.Hour)

	for {
		now := d.cfg.Now()
		wait := NextFire(now, d.cfg.Hour).Sub(now)

		select {
		case <-ctx.Done():
			d.cfg.Logger.Info("daily scheduler stopping")
			return
		case <-time.After(wait):
			d.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single push pass.  Per-user failures are logged and
// the pass continues; one dead room must not starve everyone else.
func (d *Daily) RunOnce(ctx context.Context) {
	all, err := d.lister.List(ctx)
	if err != nil {
		d.cfg.Logger.Error("daily push: list users", "error", err)
		return
	}

	sent := 0
	for _, u := range all {
		if u.RoomID == "" {
			continue
		}
		text := d.cfg.Compose(ctx, u)
		if text == "" {
			continue
		}
		if err := d.sender.SendNotice(ctx, u.RoomID, text); err != nil {
			d.cfg.Logger.Error("daily push: send failed",
				"user", u.ID, "room", u.RoomID, "error", err)
			continue
		}
		sent++
	}
	d.cfg.Logger.Info("daily push complete", "users", len(all), "sent", sent)
}

// NextFire returns the first instant strictly after now whose MSK hour is
// hour, at the top of that hour.
func NextFire(now time.Time, hour int) time.Time {
	local := now.In(msk)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, msk)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
