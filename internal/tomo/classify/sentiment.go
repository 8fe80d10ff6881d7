// Package classify implements the deterministic text classification layer
// for Tomo's reply pipeline.
//
// The classifiers are intentionally primitive: lower-cased substring
// containment against fixed marker sets, no tokenization, no scoring.  They
// exist so that the fallback templates can be keyed on something more useful
// than raw text when the LLM provider is disabled or failing.  Both
// classifiers are pure functions of their input and always return a value.
package classify

import "strings"

// Sentiment is the coarse emotional tone detected in a message.
type Sentiment string

const (
	SentimentNegative Sentiment = "neg"
	SentimentNeutral  Sentiment = "neu"
	SentimentPositive Sentiment = "pos"
)

// negMarkers and posMarkers are matched by substring containment against the
// lower-cased message.  Word stems rather than full forms are listed where a
// stem covers several inflections ("устал" matches "устала", "усталость").
var negMarkers = []string{
	"плохо", "устал", "устала", "тяжело", "тревога", "страх", "обидно",
	"не получилось", "кошмар", "сложно", "один", "одиноко", "больно",
	"упал", "упала",
}

var posMarkers = []string{
	"рад", "рада", "доволен", "довольна", "получилось", "успех", "кайф",
	"класс", "круто", "вышло", "продвинулся",
}

// DetectSentiment maps text to one of the three sentiment labels.
//
// A message matching only negative markers is negative, only positive
// markers positive.  A message matching both is ambiguous and deliberately
// resolves to neutral rather than either pole; a message matching neither is
// neutral as well.
func DetectSentiment(text string) Sentiment {
	low := strings.ToLower(text)
	neg := containsAny(low, negMarkers)
	pos := containsAny(low, posMarkers)
	switch {
	case neg && !pos:
		return SentimentNegative
	case pos && !neg:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

func containsAny(low string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}
