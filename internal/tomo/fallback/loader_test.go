package fallback

import (
	"testing"

	"github.com/bdobrica/Tomo/internal/tomo/classify"
)

func TestParse_OverlaysOnDefaults(t *testing.T) {
	doc := []byte(`
support:
  neg: ["линия раз", "линия два"]
topics:
  greet: ["привет-строка"]
`)
	pools, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(pools.Support[classify.SentimentNegative]) != 2 {
		t.Errorf("neg support pool not overridden: %v", pools.Support[classify.SentimentNegative])
	}
	// Untouched sections keep the defaults.
	if len(pools.Support[classify.SentimentPositive]) != 3 {
		t.Errorf("pos support pool should keep defaults, got %v", pools.Support[classify.SentimentPositive])
	}
	if len(pools.Motivation[BucketMorning]) == 0 {
		t.Error("motivation pools should keep defaults")
	}
	if got := pools.Topics[classify.TopicGreet]; len(got) != 1 || got[0] != "привет-строка" {
		t.Errorf("greet topic pool not overridden: %v", got)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	cases := []string{
		"support:\n  angry: [\"x\"]\n",
		"motivation:\n  brunch: [\"x\"]\n",
		"topics:\n  sports: [\"x\"]\n",
	}
	for _, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", doc)
		}
	}
}

func TestParse_RejectsEmptyPools(t *testing.T) {
	if _, err := Parse([]byte("support:\n  neg: []\n")); err == nil {
		t.Error("Parse with empty pool succeeded, want error")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("support: [not a map")); err == nil {
		t.Error("Parse with malformed YAML succeeded, want error")
	}
}
