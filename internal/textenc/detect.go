package textenc

import (
	"strings"

	"github.com/saintfish/chardet"
)

// detectSample bounds how much input the detector looks at.
const detectSample = 4096

// Guess is a best-effort charset detection result.
type Guess struct {
	Charset    string
	Language   string
	Confidence int
}

// Detect guesses the charset of data. It is used for diagnostics only; the
// fallback order never depends on it. ok is false when nothing was detected.
func Detect(data []byte) (g Guess, ok bool) {
	if len(data) == 0 {
		return Guess{}, false
	}
	if len(data) > detectSample {
		data = data[:detectSample]
	}

	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return Guess{}, false
	}
	return Guess{
		Charset:    strings.ToLower(res.Charset),
		Language:   res.Language,
		Confidence: res.Confidence,
	}, true
}
