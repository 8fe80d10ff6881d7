package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bdobrica/Tomo/common/redact"
	"github.com/bdobrica/Tomo/common/trace"
	"github.com/bdobrica/Tomo/internal/tomo/diary"
	"github.com/bdobrica/Tomo/internal/tomo/llm"
	"github.com/bdobrica/Tomo/internal/tomo/reply"
	"github.com/bdobrica/Tomo/internal/tomo/users"
)

// Sender delivers replies back to the conversation room.
type Sender interface {
	SendMessage(ctx context.Context, roomID, text string) error
	SetTyping(ctx context.Context, roomID string, typing bool, timeout time.Duration) error
}

// User-facing texts.  Mode switching works by plain words, the way the
// service's audience writes.
const (
	welcomeText = "Добро пожаловать. Я — вечерний собеседник.\n\n" +
		"Режимы:\n" +
		"• Беседа — говори, я слышу и сохраняю в дневник\n" +
		"• Поддержка — тёплые слова, когда тяжело\n" +
		"• Мотивация — короткий заряд на действие\n\n" +
		"Переключай режимы словами «Беседа», «Поддержка», «Мотивация». " +
		"Итоги дня — по слову «Итог дня». Или просто напиши."

	helpText = "Пиши обычным текстом. Я запоминаю контекст недавних сообщений " +
		"и отвечаю по-человечески.\n" +
		"Режимы переключаются словами «Беседа», «Поддержка» и «Мотивация», " +
		"итоги дня — «Итог дня»."

	modeTalkText = "Режим Беседа. Пиши, что на душе."

	trialExhaustedText = "Лимит бесплатных сообщений на сегодня исчерпан. " +
		"Продолжим завтра — я буду здесь."

	floodText = "Слишком много сообщений подряд. Давай чуть помедленнее."
)

// typingTimeout caps how long the typing indicator stays on while a reply
// is being generated.
const typingTimeout = 15 * time.Second

// Handler processes one inbound message end to end: profile bookkeeping,
// limits, command dispatch, reply generation, diary recording, send.
type Handler struct {
	users   *users.Store
	diary   *diary.Store
	gen     *reply.Generator
	sender  Sender
	limiter *FloodLimiter

	historyWindow int
	trialLimit    int
	paymentURL    string
	now           func() time.Time
	logger        *slog.Logger
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Users  *users.Store
	Diary  *diary.Store
	Gen    *reply.Generator
	Sender Sender

	// FloodLimit caps messages per sender per minute. Defaults to 20.
	FloodLimit int

	// HistoryWindow is how many recent turns the talk prompt carries.
	// Defaults to 6.
	HistoryWindow int

	// TrialLimit caps free messages per sender per MSK day. Defaults to 30.
	TrialLimit int

	// PaymentURL, when set, is offered in the over-quota message.  Billing
	// itself is out of scope; this is a plain hand-off link.
	PaymentURL string

	// Now supplies the current time; tests inject fixed clocks.
	Now func() time.Time

	Logger *slog.Logger
}

// NewHandler creates a Handler with defaults applied.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 6
	}
	if cfg.TrialLimit <= 0 {
		cfg.TrialLimit = 30
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		users:         cfg.Users,
		diary:         cfg.Diary,
		gen:           cfg.Gen,
		sender:        cfg.Sender,
		limiter:       NewFloodLimiter(cfg.FloodLimit, 0),
		historyWindow: cfg.HistoryWindow,
		trialLimit:    cfg.TrialLimit,
		paymentURL:    cfg.PaymentURL,
		now:           cfg.Now,
		logger:        cfg.Logger,
	}
}

// HandleMessage processes one inbound text message.
func (h *Handler) HandleMessage(ctx context.Context, roomID, senderID, text string, ts time.Time) {
	ctx = trace.WithTraceID(ctx, trace.GenerateID())
	log := h.logger.With("trace_id", trace.FromContext(ctx), "sender", senderID)
	log.Info("message received", "text_snippet", redact.Snippet(text, 40))

	user, err := h.users.Ensure(ctx, senderID, roomID)
	if err != nil {
		log.Error("ensure user failed", "error", err)
		return
	}

	switch normalize(text) {
	case "/start":
		h.send(ctx, log, roomID, welcomeText)
		return
	case "/help", "помощь":
		h.send(ctx, log, roomID, helpText)
		return
	case "/talk", "беседа":
		h.switchMode(ctx, log, user, roomID, users.ModeTalk)
		return
	case "/support", "поддержка":
		h.switchMode(ctx, log, user, roomID, users.ModeSupport)
		return
	case "/motivate", "мотивация":
		h.switchMode(ctx, log, user, roomID, users.ModeMotivate)
		return
	case "/summary", "итог дня":
		h.sendSummary(ctx, log, user, roomID)
		return
	}

	h.handleFreeText(ctx, log, user, roomID, text, ts)
}

// switchMode changes the user's mode and confirms it.  Support and motivate
// open with a first line in the new voice, the way the mode will sound.
func (h *Handler) switchMode(ctx context.Context, log *slog.Logger, user *users.User, roomID, mode string) {
	if err := h.users.SetMode(ctx, user.ID, mode); err != nil {
		log.Error("set mode failed", "mode", mode, "error", err)
		return
	}
	log.Info("mode switched", "mode", mode)

	var text string
	switch mode {
	case users.ModeSupport:
		line := h.gen.Support(ctx, "")
		h.record(ctx, log, user.ID, "assistant", line)
		text = "Режим Поддержка.\n" + line
	case users.ModeMotivate:
		line := h.gen.Motivate(ctx, "")
		h.record(ctx, log, user.ID, "assistant", line)
		text = "Режим Мотивация.\n" + line
	default:
		text = modeTalkText
	}
	h.send(ctx, log, roomID, text)
}

// sendSummary renders the daily diary digest plus the streak line.
func (h *Handler) sendSummary(ctx context.Context, log *slog.Logger, user *users.User, roomID string) {
	text, err := h.diary.DailySummary(ctx, user.ID, h.now())
	if err != nil {
		log.Error("daily summary failed", "error", err)
		return
	}

	if current, best, err := h.users.Streak(ctx, user.ID); err == nil && current > 0 {
		text += fmt.Sprintf("\n\nДней подряд со мной: %d (рекорд %d).", current, best)
	}
	h.send(ctx, log, roomID, text)
}

// handleFreeText runs the ordinary-message pipeline: flood limit, trial
// quota, streak, diary, mode dispatch, reply.
func (h *Handler) handleFreeText(ctx context.Context, log *slog.Logger, user *users.User, roomID, text string, ts time.Time) {
	if !h.limiter.Allow(user.ID) {
		log.Warn("flood limit hit")
		h.send(ctx, log, roomID, floodText)
		return
	}

	count, err := h.users.IncrementMessageCount(ctx, user.ID, h.now())
	if err != nil {
		log.Error("increment message count failed", "error", err)
		// Counting failures must not silence the conversation.
	} else if count > h.trialLimit {
		log.Info("trial limit reached", "count", count)
		text := trialExhaustedText
		if h.paymentURL != "" {
			text += "\nПродолжить без ограничений: " + h.paymentURL
		}
		h.send(ctx, log, roomID, text)
		return
	}

	if _, _, err := h.users.TouchStreak(ctx, user.ID, h.now()); err != nil {
		log.Error("touch streak failed", "error", err)
	}

	// History is fetched before recording the current message so the prompt
	// does not carry the text twice.
	var history []llm.Turn
	if user.Mode == users.ModeTalk {
		turns, err := h.diary.RecentTurns(ctx, user.ID, h.historyWindow)
		if err != nil {
			log.Error("recent turns failed", "error", err)
		}
		history = toLLMTurns(turns)
	}

	h.record(ctx, log, user.ID, "user", text)

	if err := h.sender.SetTyping(ctx, roomID, true, typingTimeout); err != nil {
		log.Warn("set typing failed", "error", err)
	}

	var replyText string
	switch user.Mode {
	case users.ModeSupport:
		replyText = h.gen.Support(ctx, text)
	case users.ModeMotivate:
		replyText = h.gen.Motivate(ctx, text)
	default:
		replyText = h.gen.Talk(ctx, text, history)
	}

	h.record(ctx, log, user.ID, "assistant", replyText)
	if err := h.sender.SetTyping(ctx, roomID, false, 0); err != nil {
		log.Warn("clear typing failed", "error", err)
	}
	h.send(ctx, log, roomID, replyText)
}

// record writes one diary turn, logging rather than propagating failures:
// a broken diary must not break the conversation.
func (h *Handler) record(ctx context.Context, log *slog.Logger, userID, role, text string) {
	if err := h.diary.AddTurn(ctx, userID, role, text, h.now()); err != nil {
		log.Error("diary write failed", "role", role, "error", err)
	}
}

func (h *Handler) send(ctx context.Context, log *slog.Logger, roomID, text string) {
	if err := h.sender.SendMessage(ctx, roomID, text); err != nil {
		log.Error("send failed", "room", roomID, "error", err)
	}
}

// normalize lowercases and trims a message for command matching.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func toLLMTurns(turns []diary.Turn) []llm.Turn {
	out := make([]llm.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, llm.Turn{Role: t.Role, Text: t.Text})
	}
	return out
}
