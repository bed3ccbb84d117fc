package router

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/pepebot/internal/core"
)

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
)

// countTokens measures text against the classifier's token budget. If the
// encoding is unavailable (offline first run) it estimates at four bytes
// per token, which only makes trimming slightly more aggressive.
func countTokens(text string) int {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoder = enc
		}
	})
	if encoder == nil {
		return len(text) / 4
	}
	return len(encoder.Encode(text, nil, nil))
}

// BuildTranscript formats recent turns plus the current message for the
// classifier, dropping oldest turns first until the token budget fits.
func BuildTranscript(turns []core.ConversationTurn, current, author string, tokenBudget int) string {
	for start := 0; ; start++ {
		if start > len(turns) {
			start = len(turns)
		}

		var b strings.Builder
		for _, t := range turns[start:] {
			name := t.Author
			if name == "" && t.Role == core.RoleBot {
				name = core.PepeName
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(t.Text)
			b.WriteByte('\n')
		}
		b.WriteString(author)
		b.WriteString(" (current): ")
		b.WriteString(current)

		out := b.String()
		if tokenBudget <= 0 || countTokens(out) <= tokenBudget || start >= len(turns) {
			return out
		}
	}
}
