package llm

import (
	"fmt"
	"strings"
)

// System instructions per prompt kind.  Each constrains tone the same way:
// short, no unsolicited advice, no pathos, no emoji.
const (
	talkSystemPrompt = "Ты тёплый, спокойный собеседник. Коротко отражай мысль пользователя, " +
		"задавай 1 мягкий уточняющий вопрос. Не давай советов, если не просили. Без эмодзи."

	supportSystemPrompt = "Ты поддерживающий ассистент. Дай 1-2 короткие фразы принятия и утешения. " +
		"Без советов, без оценок, без пафоса. Без эмодзи."

	motivateSystemPrompt = "Ты мотивирующий ассистент. Дай одну короткую реалистичную " +
		"фразу-подсказку к действию на сегодня. Без пафоса. Без эмодзи."
)

// BuildPrompt renders the system and user instruction pair for a request.
func BuildPrompt(req Request) (system, user string) {
	switch req.Kind {
	case KindSupport:
		return supportSystemPrompt,
			fmt.Sprintf("Пользователь пишет: %s\nСформулируй 1–2 строки поддержки.", req.UserText)

	case KindMotivate:
		ctx := req.UserText
		if strings.TrimSpace(ctx) == "" {
			ctx = "нет"
		}
		return motivateSystemPrompt, "Контекст: " + ctx

	default: // KindTalk
		return talkSystemPrompt, fmt.Sprintf(
			"Контекст последних сообщений:\n%s\n\nТекущее сообщение пользователя: %s\n\n"+
				"Ответь одной-двумя фразами: короткое отражение + один мягкий вопрос.",
			FormatHistory(req.History), req.UserText)
	}
}

// FormatHistory renders the conversation window as role-labelled lines,
// oldest first, the way the model is meant to read it.
func FormatHistory(history []Turn) string {
	parts := make([]string, 0, len(history))
	for _, turn := range history {
		tag := "Ассистент"
		if turn.Role == "user" {
			tag = "Пользователь"
		}
		parts = append(parts, tag+": "+turn.Text)
	}
	return strings.Join(parts, "\n")
}
