package llm

import (
	"strings"
	"testing"
)

func TestBuildPrompt_Talk(t *testing.T) {
	system, user := BuildPrompt(Request{
		Kind:     KindTalk,
		UserText: "не знаю, что делать",
		History: []Turn{
			{Role: "user", Text: "привет"},
			{Role: "assistant", Text: "Привет! Как прошёл день?"},
		},
	})
	if system != talkSystemPrompt {
		t.Errorf("system prompt mismatch for talk kind")
	}
	for _, want := range []string{
		"Пользователь: привет",
		"Ассистент: Привет! Как прошёл день?",
		"не знаю, что делать",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("talk user prompt missing %q:\n%s", want, user)
		}
	}
}

func TestBuildPrompt_Support(t *testing.T) {
	system, user := BuildPrompt(Request{Kind: KindSupport, UserText: "мне тяжело"})
	if system != supportSystemPrompt {
		t.Errorf("system prompt mismatch for support kind")
	}
	if !strings.Contains(user, "мне тяжело") {
		t.Errorf("support user prompt missing user text: %s", user)
	}
}

func TestBuildPrompt_MotivateEmptyContext(t *testing.T) {
	system, user := BuildPrompt(Request{Kind: KindMotivate, UserText: "   "})
	if system != motivateSystemPrompt {
		t.Errorf("system prompt mismatch for motivate kind")
	}
	if user != "Контекст: нет" {
		t.Errorf("motivate user prompt = %q", user)
	}
}

func TestFormatHistory(t *testing.T) {
	got := FormatHistory([]Turn{
		{Role: "user", Text: "раз"},
		{Role: "assistant", Text: "два"},
	})
	want := "Пользователь: раз\nАссистент: два"
	if got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}
	if FormatHistory(nil) != "" {
		t.Errorf("empty history must render empty")
	}
}
