package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/bdobrica/Tomo/internal/tomo/classify"
)

func TestBucketAt_EveryHourMapsToExactlyOneBucket(t *testing.T) {
	want := func(h int) Bucket {
		switch {
		case h >= 6 && h < 12:
			return BucketMorning
		case h >= 12 && h < 18:
			return BucketDay
		case h >= 18:
			return BucketEvening
		default:
			return BucketNight
		}
	}
	for h := 0; h < 24; h++ {
		// Construct the instant directly in UTC+3 so the MSK hour is h.
		ts := time.Date(2025, 3, 10, h, 30, 0, 0, time.FixedZone("MSK", 3*3600))
		if got := BucketAt(ts); got != want(h) {
			t.Errorf("BucketAt(hour %d) = %q, want %q", h, got, want(h))
		}
	}
}

func TestBucketAt_UsesFixedOffset(t *testing.T) {
	// 04:00 UTC is 07:00 MSK, morning regardless of the host timezone.
	ts := time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)
	if got := BucketAt(ts); got != BucketMorning {
		t.Errorf("BucketAt(04:00 UTC) = %q, want morning", got)
	}
}

func TestSelector_Deterministic(t *testing.T) {
	s := NewSelector(nil)
	for i := 0; i < 5; i++ {
		a := s.SupportLine(classify.SentimentNegative, BucketEvening)
		b := s.SupportLine(classify.SentimentNegative, BucketEvening)
		if a != b {
			t.Fatalf("SupportLine not deterministic: %q vs %q", a, b)
		}
	}
	if a, b := s.MotivationLine(BucketNight), s.MotivationLine(BucketNight); a != b {
		t.Fatalf("MotivationLine not deterministic: %q vs %q", a, b)
	}
	if a, b := s.TalkLine(classify.TopicGreet, BucketDay), s.TalkLine(classify.TopicGreet, BucketDay); a != b {
		t.Fatalf("TalkLine not deterministic: %q vs %q", a, b)
	}
}

func TestSelector_SupportLineComesFromSentimentPool(t *testing.T) {
	s := NewSelector(nil)
	pool := Defaults().Support[classify.SentimentNegative]
	line := s.SupportLine(classify.SentimentNegative, BucketDay)
	found := false
	for _, candidate := range pool {
		if line == candidate {
			found = true
		}
	}
	if !found {
		t.Errorf("SupportLine(neg) = %q, not in the neg pool", line)
	}
}

func TestSelector_MotivationUnknownBucketFallsBackToDay(t *testing.T) {
	s := NewSelector(nil)
	line := s.MotivationLine(Bucket("brunch"))
	pool := Defaults().Motivation[BucketDay]
	found := false
	for _, candidate := range pool {
		if line == candidate {
			found = true
		}
	}
	if !found {
		t.Errorf("MotivationLine(unknown bucket) = %q, not in the day pool", line)
	}
}

func TestSelector_TalkLineGenericHasNoPool(t *testing.T) {
	s := NewSelector(nil)
	if got := s.TalkLine(classify.TopicGeneric, BucketDay); got != "" {
		t.Errorf("TalkLine(generic) = %q, want empty", got)
	}
}

func TestReflect_EchoesAndAsks(t *testing.T) {
	got := Reflect("сегодня был  длинный\nдень", classify.SentimentNeutral)
	if !strings.Contains(got, "«сегодня был длинный день»") {
		t.Errorf("Reflect did not normalize whitespace in the echo: %q", got)
	}
	if !strings.HasSuffix(got, "взять с собой на завтра?") {
		t.Errorf("Reflect missing closing question: %q", got)
	}
}

func TestReflect_SentimentPrefix(t *testing.T) {
	if got := Reflect("тест", classify.SentimentNegative); !strings.HasPrefix(got, "Слышу в этом напряжение. ") {
		t.Errorf("neg prefix missing: %q", got)
	}
	if got := Reflect("тест", classify.SentimentPositive); !strings.HasPrefix(got, "Звучит светло. ") {
		t.Errorf("pos prefix missing: %q", got)
	}
	if got := Reflect("тест", classify.SentimentNeutral); !strings.HasPrefix(got, "Ты написал") {
		t.Errorf("neu should have no prefix: %q", got)
	}
}

func TestReflect_TruncatesAtRuneCap(t *testing.T) {
	long := strings.Repeat("а", 400)
	got := Reflect(long, classify.SentimentNeutral)
	if !strings.Contains(got, strings.Repeat("а", 180)+"…") {
		t.Errorf("expected 180-rune echo with ellipsis, got %q", got)
	}
	if strings.Contains(got, strings.Repeat("а", 181)) {
		t.Errorf("echo exceeds the rune cap: %q", got)
	}
}
