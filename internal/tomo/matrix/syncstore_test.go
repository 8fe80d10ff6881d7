package matrix

import (
	"context"
	"path/filepath"
	"testing"

	"maunium.net/go/mautrix/id"

	"github.com/bdobrica/Tomo/internal/tomo/store"
)

func TestDBSyncStore_RoundTrip(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "tomo.db"))
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	defer s.Close()

	ss := newDBSyncStore(s.DB())
	ctx := context.Background()
	user := id.UserID("@tomo:example.org")

	// Missing keys read as empty without error.
	if got, err := ss.LoadNextBatch(ctx, user); err != nil || got != "" {
		t.Errorf("LoadNextBatch on empty store = (%q, %v)", got, err)
	}

	if err := ss.SaveNextBatch(ctx, user, "s123_456"); err != nil {
		t.Fatalf("SaveNextBatch() error: %v", err)
	}
	if err := ss.SaveNextBatch(ctx, user, "s789_012"); err != nil {
		t.Fatalf("SaveNextBatch() overwrite error: %v", err)
	}
	if got, _ := ss.LoadNextBatch(ctx, user); got != "s789_012" {
		t.Errorf("LoadNextBatch = %q, want latest token", got)
	}

	if err := ss.SaveFilterID(ctx, user, "f1"); err != nil {
		t.Fatalf("SaveFilterID() error: %v", err)
	}
	if got, _ := ss.LoadFilterID(ctx, user); got != "f1" {
		t.Errorf("LoadFilterID = %q, want f1", got)
	}
}
