package extractor

import (
	"errors"
	"math/rand"
)

// ErrEmptyResult marks a fetch that completed but yielded no usable
// records. Callers treat it as a soft failure and keep the previous
// snapshot instead of overwriting it with nothing.
var ErrEmptyResult = errors.New("extractor: no usable records")

// pickUserAgent rotates through the configured pool so repeated runs do
// not present an identical fingerprint.
func pickUserAgent(agents []string) string {
	if len(agents) == 0 {
		return ""
	}
	return agents[rand.Intn(len(agents))]
}
