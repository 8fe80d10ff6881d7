package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bdobrica/Tomo/internal/tomo/diary"
	"github.com/bdobrica/Tomo/internal/tomo/reply"
	"github.com/bdobrica/Tomo/internal/tomo/store"
	"github.com/bdobrica/Tomo/internal/tomo/users"
)

type fakeSender struct {
	messages []string
	rooms    []string
}

func (f *fakeSender) SendMessage(ctx context.Context, roomID, text string) error {
	f.rooms = append(f.rooms, roomID)
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) SetTyping(ctx context.Context, roomID string, typing bool, timeout time.Duration) error {
	return nil
}

func (f *fakeSender) last() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

type testEnv struct {
	handler *Handler
	sender  *fakeSender
	users   *users.Store
	diary   *diary.Store
}

func newTestEnv(t *testing.T, cfg HandlerConfig) *testEnv {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "tomo.db"))
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	sender := &fakeSender{}
	us := users.NewStore(s.DB())
	ds := diary.NewStore(s.DB())

	cfg.Users = us
	cfg.Diary = ds
	cfg.Sender = sender
	if cfg.Gen == nil {
		cfg.Gen = reply.NewGenerator(reply.Config{Logger: slog.New(slog.DiscardHandler)})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &testEnv{
		handler: NewHandler(cfg),
		sender:  sender,
		users:   us,
		diary:   ds,
	}
}

func (e *testEnv) say(text string) {
	e.handler.HandleMessage(context.Background(), "!room:example.org", "@alice:example.org", text, time.Now())
}

func TestHandleMessage_Start(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	env.say("/start")

	if env.sender.last() != welcomeText {
		t.Errorf("/start reply = %q", env.sender.last())
	}
	if _, err := env.users.Get(context.Background(), "@alice:example.org"); err != nil {
		t.Errorf("/start must register the user: %v", err)
	}
}

func TestHandleMessage_Help(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	for _, msg := range []string{"/help", "Помощь", "помощь"} {
		env.say(msg)
		if env.sender.last() != helpText {
			t.Errorf("%q reply = %q, want help text", msg, env.sender.last())
		}
	}
}

func TestHandleMessage_ModeSwitch(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	ctx := context.Background()

	env.say("Поддержка")
	u, err := env.users.Get(ctx, "@alice:example.org")
	if err != nil {
		t.Fatal(err)
	}
	if u.Mode != users.ModeSupport {
		t.Errorf("mode = %q, want support", u.Mode)
	}
	if !strings.HasPrefix(env.sender.last(), "Режим Поддержка.\n") {
		t.Errorf("support switch reply = %q", env.sender.last())
	}
	// The opening support line is recorded in the diary.
	turns, err := env.diary.RecentTurns(ctx, "@alice:example.org", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 || turns[0].Role != "assistant" {
		t.Errorf("expected one recorded assistant turn, got %+v", turns)
	}

	env.say("беседа")
	u, _ = env.users.Get(ctx, "@alice:example.org")
	if u.Mode != users.ModeTalk {
		t.Errorf("mode = %q, want talk", u.Mode)
	}
	if env.sender.last() != modeTalkText {
		t.Errorf("talk switch reply = %q", env.sender.last())
	}
}

func TestHandleMessage_FreeTextRecordsBothTurns(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	env.say("сегодня был странный день, сам не знаю что думать")

	if env.sender.last() == "" {
		t.Fatal("free text must always get a reply")
	}

	turns, err := env.diary.RecentTurns(context.Background(), "@alice:example.org", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected user and assistant turns recorded, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("turn roles = %q, %q", turns[0].Role, turns[1].Role)
	}
	if turns[1].Text != env.sender.last() {
		t.Errorf("recorded reply %q differs from sent reply %q", turns[1].Text, env.sender.last())
	}
}

func TestHandleMessage_TrialLimit(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{TrialLimit: 2})

	env.say("первое сообщение")
	env.say("второе сообщение")
	env.say("третье сообщение")

	if env.sender.last() != trialExhaustedText {
		t.Errorf("over-quota reply = %q, want trial message", env.sender.last())
	}

	// The over-quota message is not recorded.
	turns, err := env.diary.RecentTurns(context.Background(), "@alice:example.org", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 4 {
		t.Errorf("diary has %d turns, want 4 (two exchanges)", len(turns))
	}
}

func TestHandleMessage_TrialLimitWithPaymentURL(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{TrialLimit: 1, PaymentURL: "https://example.org/pay"})

	env.say("раз")
	env.say("два")

	got := env.sender.last()
	if !strings.HasPrefix(got, trialExhaustedText) || !strings.Contains(got, "https://example.org/pay") {
		t.Errorf("over-quota reply must carry the payment link, got %q", got)
	}
}

func TestHandleMessage_FloodLimit(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{FloodLimit: 1})

	env.say("раз")
	env.say("два")

	if env.sender.last() != floodText {
		t.Errorf("flooded reply = %q, want flood message", env.sender.last())
	}
}

func TestHandleMessage_CommandsBypassLimits(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{TrialLimit: 1, FloodLimit: 1})

	env.say("единственное сообщение")
	env.say("/help")

	if env.sender.last() != helpText {
		t.Errorf("commands must not consume the quotas, got %q", env.sender.last())
	}
}

func TestHandleMessage_Summary(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	env.say("утром было тревожно")
	env.say("Итог дня")

	got := env.sender.last()
	if !strings.HasPrefix(got, "Краткий дневник за сутки:") {
		t.Errorf("summary = %q", got)
	}
	if !strings.Contains(got, "утром было тревожно") {
		t.Errorf("summary missing diary entry:\n%s", got)
	}
	if !strings.Contains(got, "Дней подряд со мной: 1") {
		t.Errorf("summary missing streak line:\n%s", got)
	}
}

func TestHandleMessage_SummaryEmpty(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	env.say("/summary")

	if env.sender.last() != "За последние сутки записей нет." {
		t.Errorf("empty summary = %q", env.sender.last())
	}
}
