package fallback

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/bdobrica/Tomo/internal/tomo/classify"
)

// reflectMaxRunes caps the echoed user text in the reflective talk fallback.
const reflectMaxRunes = 180

// Selector picks fallback lines deterministically from its pools.
// It holds only read-only state and is safe for concurrent use.
type Selector struct {
	pools *Pools
}

// NewSelector returns a Selector over pools; nil pools means the built-in
// defaults.
func NewSelector(pools *Pools) *Selector {
	if pools == nil {
		pools = Defaults()
	}
	return &Selector{pools: pools}
}

// SupportLine returns the supportive line for the given sentiment and
// bucket.  The pool is keyed by sentiment; the bucket participates in the
// selection key so the phrasing rotates across the day without losing
// determinism within a bucket.
func (s *Selector) SupportLine(sent classify.Sentiment, bucket Bucket) string {
	pool, ok := s.pools.Support[sent]
	if !ok {
		pool = s.pools.Support[classify.SentimentNeutral]
	}
	return pick(string(sent)+"|"+string(bucket), pool)
}

// MotivationLine returns the motivational line for the given bucket,
// falling back to the day pool when the bucket has no pool of its own.
func (s *Selector) MotivationLine(bucket Bucket) string {
	pool, ok := s.pools.Motivation[bucket]
	if !ok {
		bucket = BucketDay
		pool = s.pools.Motivation[BucketDay]
	}
	return pick("m|"+string(bucket), pool)
}

// TalkLine returns the canned talk question for the given topic, or ""
// when the topic has no pool (the generic case; callers should use
// Reflect instead).
func (s *Selector) TalkLine(topic classify.Topic, bucket Bucket) string {
	pool, ok := s.pools.Topics[topic]
	if !ok || len(pool) == 0 {
		return ""
	}
	return pick(string(topic)+"|"+string(bucket), pool)
}

// Reflect builds the generic talk fallback: a sentiment-dependent prefix
// plus a whitespace-normalized echo of the user's text truncated at
// reflectMaxRunes, closed with a gentle question.
func Reflect(userText string, sent classify.Sentiment) string {
	echo := strings.Join(strings.Fields(userText), " ")
	if utf8.RuneCountInString(echo) > reflectMaxRunes {
		runes := []rune(echo)
		echo = string(runes[:reflectMaxRunes]) + "…"
	}

	var pre string
	switch sent {
	case classify.SentimentNegative:
		pre = "Слышу в этом напряжение. "
	case classify.SentimentPositive:
		pre = "Звучит светло. "
	}
	return fmt.Sprintf("%sТы написал: «%s». Что из этого стоит взять с собой на завтра?", pre, echo)
}

// pick derives a stable index for key into pool.  FNV-1a is used instead of
// the runtime hash so the choice is identical across processes and
// platforms.  An empty pool yields "".
func pick(key string, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return pool[int(h.Sum32()%uint32(len(pool)))]
}
