package fallback

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bdobrica/Tomo/internal/tomo/classify"
)

// poolsDoc is the YAML shape of an operator-supplied line pack.
// All sections are optional; omitted sections keep the built-in pools.
//
//	support:
//	  neg: ["...", "..."]
//	  neu: ["..."]
//	  pos: ["..."]
//	motivation:
//	  morning: ["..."]
//	  day: ["..."]
//	  evening: ["..."]
//	  night: ["..."]
//	topics:
//	  greet: ["..."]
//	  tired: ["..."]
type poolsDoc struct {
	Support    map[string][]string `yaml:"support"`
	Motivation map[string][]string `yaml:"motivation"`
	Topics     map[string][]string `yaml:"topics"`
}

var (
	knownSentiments = map[string]classify.Sentiment{
		"neg": classify.SentimentNegative,
		"neu": classify.SentimentNeutral,
		"pos": classify.SentimentPositive,
	}
	knownBuckets = map[string]Bucket{
		"morning": BucketMorning,
		"day":     BucketDay,
		"evening": BucketEvening,
		"night":   BucketNight,
	}
	knownTopics = map[string]classify.Topic{
		"greet":              classify.TopicGreet,
		"who":                classify.TopicWho,
		"ask_me":             classify.TopicAskMe,
		"ask_clarify":        classify.TopicAskClarify,
		"complain_no_answer": classify.TopicComplainNoAnswer,
		"tired":              classify.TopicTired,
		"relations":          classify.TopicRelations,
		"work":               classify.TopicWork,
		"health":             classify.TopicHealth,
		"short":              classify.TopicShort,
	}
)

// Parse decodes a YAML line pack and overlays it on the built-in defaults.
// Unknown section keys and empty pools are rejected; validation fails
// loudly instead of silently keeping the defaults for a mistyped key.
func Parse(data []byte) (*Pools, error) {
	var doc poolsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fallback: parse line pack: %w", err)
	}

	pools := Defaults()

	for key, lines := range doc.Support {
		sent, ok := knownSentiments[key]
		if !ok {
			return nil, fmt.Errorf("fallback: unknown sentiment %q in support section", key)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("fallback: empty pool for support.%s", key)
		}
		pools.Support[sent] = lines
	}

	for key, lines := range doc.Motivation {
		bucket, ok := knownBuckets[key]
		if !ok {
			return nil, fmt.Errorf("fallback: unknown bucket %q in motivation section", key)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("fallback: empty pool for motivation.%s", key)
		}
		pools.Motivation[bucket] = lines
	}

	for key, lines := range doc.Topics {
		topic, ok := knownTopics[key]
		if !ok {
			return nil, fmt.Errorf("fallback: unknown topic %q in topics section", key)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("fallback: empty pool for topics.%s", key)
		}
		pools.Topics[topic] = lines
	}

	return pools, nil
}

// Load reads and parses a YAML line pack from path.
func Load(path string) (*Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fallback: read line pack: %w", err)
	}
	return Parse(data)
}
