// Package clean implements the tweet cleaning stage: text normalization,
// hash-based deduplication, and the pipeline orchestrating both.
package clean

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
)

// EmojiMode controls how emoji characters are handled during normalization.
type EmojiMode string

const (
	// EmojiConvert replaces each emoji with its textual slug so downstream
	// keyword matching operates on words.
	EmojiConvert EmojiMode = "convert"
	// EmojiDrop removes emoji characters entirely.
	EmojiDrop EmojiMode = "drop"
)

// Options configures the normalizer. The zero value keeps everything.
type Options struct {
	RemoveURLs       bool
	RemoveMentions   bool
	RemoveHashtags   bool
	EmojiMode        EmojiMode
	MentionAllowlist []string
}

// DefaultOptions mirrors the behavior expected for telecom tweet input:
// URLs and mentions are noise, hashtags are semantically useful.
func DefaultOptions() Options {
	return Options{
		RemoveURLs:     true,
		RemoveMentions: true,
		RemoveHashtags: false,
		EmojiMode:      EmojiConvert,
	}
}

// Pre-compiled patterns. Go's regexp is RE2, so matching is linear in input
// size and pathological inputs cannot trigger backtracking blowups.
var (
	urlRegex     = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	mentionRegex = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	hashtagRegex = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

// Normalizer cleans a single text value. It is immutable after construction
// and safe for concurrent use.
type Normalizer struct {
	opts         Options
	mentionAllow map[string]struct{}
}

// NewNormalizer builds a normalizer from the given options.
func NewNormalizer(opts Options) *Normalizer {
	allow := make(map[string]struct{}, len(opts.MentionAllowlist))
	for _, handle := range opts.MentionAllowlist {
		handle = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
		if handle != "" {
			allow[handle] = struct{}{}
		}
	}

	return &Normalizer{opts: opts, mentionAllow: allow}
}

// Normalize returns the cleaned form of text. It never fails; missing or
// empty input yields an empty string.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if n.opts.RemoveURLs {
		text = urlRegex.ReplaceAllString(text, " ")
	}

	if n.opts.RemoveMentions {
		text = mentionRegex.ReplaceAllStringFunc(text, n.replaceMention)
	}

	if n.opts.RemoveHashtags {
		text = hashtagRegex.ReplaceAllString(text, " ")
	}

	text = n.applyEmojiMode(text)

	text = strings.ToLower(text)
	text = spaceRegex.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// replaceMention drops a @mention token unless its handle is allow-listed.
func (n *Normalizer) replaceMention(token string) string {
	handle := strings.ToLower(strings.TrimPrefix(token, "@"))
	if _, ok := n.mentionAllow[handle]; ok {
		return token
	}

	return " "
}

func (n *Normalizer) applyEmojiMode(text string) string {
	switch n.opts.EmojiMode {
	case EmojiConvert:
		for _, em := range gomoji.FindAll(text) {
			replacement := " " + strings.ReplaceAll(em.Slug, "-", " ") + " "
			text = strings.ReplaceAll(text, em.Character, replacement)
		}

		return text
	case EmojiDrop:
		return gomoji.RemoveEmojis(text)
	default:
		return text
	}
}
