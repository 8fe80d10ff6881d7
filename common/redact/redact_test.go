package redact_test

import (
	"strings"
	"testing"

	"github.com/bdobrica/Tomo/common/redact"
)

func TestString_ReplacesSensitiveValues(t *testing.T) {
	got := redact.String("token=sk-abc123 other=sk-abc123", "sk-abc123")
	if strings.Contains(got, "sk-abc123") {
		t.Errorf("sensitive value survived redaction: %q", got)
	}
	if !strings.Contains(got, "[REDACTED]") {
		t.Errorf("placeholder missing: %q", got)
	}
}

func TestString_SkipsShortValues(t *testing.T) {
	got := redact.String("a=1 b=2", "1")
	if got != "a=1 b=2" {
		t.Errorf("short value should not be redacted, got %q", got)
	}
}

func TestSnippet_CollapsesWhitespace(t *testing.T) {
	if got := redact.Snippet("привет,\n  как  дела", 100); got != "привет, как дела" {
		t.Errorf("Snippet = %q", got)
	}
}

func TestSnippet_TruncatesRunes(t *testing.T) {
	got := redact.Snippet(strings.Repeat("ж", 50), 10)
	if got != strings.Repeat("ж", 10)+"…" {
		t.Errorf("Snippet = %q", got)
	}
}

func TestSnippet_NoTruncationUnderCap(t *testing.T) {
	if got := redact.Snippet("короткий", 20); got != "короткий" {
		t.Errorf("Snippet = %q", got)
	}
}
