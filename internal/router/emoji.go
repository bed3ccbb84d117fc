package router

import (
	"hash/fnv"
	"strings"
)

// EmojiPicker chooses the NORESPONSE emoji: a keyword match when the
// message carries an obvious cue, otherwise a deterministic hash-based
// pick from the fallback set so the same message always gets the same
// reaction.
type EmojiPicker struct {
	keywords map[string]string
	fallback []string
}

func NewEmojiPicker() *EmojiPicker {
	return NewEmojiPickerWith(nil)
}

// NewEmojiPickerWith overrides the fallback set; nil keeps the default.
func NewEmojiPickerWith(fallback []string) *EmojiPicker {
	if len(fallback) == 0 {
		fallback = []string{"🐸", "👀", "✨", "🃏", "💭"}
	}
	return &EmojiPicker{
		fallback: fallback,
		keywords: map[string]string{
			"gm":     "☀️",
			"gn":     "🌙",
			"lol":    "😂",
			"lmao":   "😂",
			"kek":    "🐸",
			"thanks": "🙏",
			"ty":     "🙏",
			"nice":   "🔥",
			"moon":   "🚀",
			"rip":    "🫡",
			"sad":    "😢",
			"wen":    "⏳",
		},
	}
}

// Fallback returns the configured fallback set.
func (p *EmojiPicker) Fallback() []string {
	return p.fallback
}

func (p *EmojiPicker) Pick(text string) string {
	lower := strings.ToLower(text)
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?")
		if emoji, ok := p.keywords[word]; ok {
			return emoji
		}
	}

	h := fnv.New32a()
	h.Write([]byte(lower))
	return p.fallback[h.Sum32()%uint32(len(p.fallback))]
}
