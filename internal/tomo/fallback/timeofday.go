// Package fallback provides the deterministic local reply templates used
// whenever the LLM provider is disabled or failing.
//
// Selection is reproducible by construction: a line is picked by hashing the
// pool key (classifier outputs plus the time-of-day bucket) with FNV-1a and
// taking the result modulo the pool size.  Runtime map iteration order and
// per-process hash seeds are never involved, so the same key in the same
// bucket always yields the same line on any platform, in any run.
package fallback

import "time"

// Bucket is a coarse time-of-day slot used to vary fallback phrasing.
type Bucket string

const (
	BucketMorning Bucket = "morning"
	BucketDay     Bucket = "day"
	BucketEvening Bucket = "evening"
	BucketNight   Bucket = "night"
)

// mskOffset is the fixed UTC+3 offset the service phrases its days in.
// There is no per-user timezone; every bucket and day boundary uses MSK.
var mskOffset = time.FixedZone("MSK", 3*60*60)

// BucketAt returns the time-of-day bucket for t, evaluated at UTC+3.
// Boundaries: [6,12) morning, [12,18) day, [18,24) evening, else night.
func BucketAt(t time.Time) Bucket {
	switch h := t.In(mskOffset).Hour(); {
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
