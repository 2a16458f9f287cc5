package extract

import (
	"github.com/cloudflare/ahocorasick"
)

// Balance carry-forward rows are statement furniture, not transactions.
// The matcher is built once at init; Match scans the lower-cased
// description in a single pass.
var noisePatterns = []string{
	"opening balance",
	"closing balance",
	"carried forward",
	"brought forward",
	"balance forward",
	"balance b/f",
	"balance c/f",
	"balance b/fwd",
	"balance c/fwd",
	"bal fwd",
	"bal b/f",
	"bal c/f",
	"b/f balance",
	"c/f balance",
	"beginning balance",
	"ending balance",
	"previous balance",
	"balance at start",
	"balance at end",
}

var noiseMatcher = ahocorasick.NewStringMatcher(noisePatterns)

func isNoiseDescription(lowered string) bool {
	return len(noiseMatcher.Match([]byte(lowered))) > 0
}
