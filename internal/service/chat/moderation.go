package chat

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// ParseFilterWords splits the comma separated filter_words setting,
// trimming entries and dropping empty ones.
func ParseFilterWords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// patternCache keeps compiled patterns for banned words; the word list
// changes rarely and is read on every send.
var patternCache sync.Map // word -> *regexp.Regexp

func bannedPattern(word string) *regexp.Regexp {
	if re, ok := patternCache.Load(word); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	actual, _ := patternCache.LoadOrStore(word, re)
	return actual.(*regexp.Regexp)
}

// Apply masks every case-insensitive occurrence of each banned word.
// The mask has as many '*' as the configured word has runes, whatever
// the length of the matched text.
func Apply(text string, banned []string) string {
	if len(banned) == 0 {
		return text
	}
	out := text
	for _, word := range banned {
		if word == "" {
			continue
		}
		mask := strings.Repeat("*", utf8.RuneCountInString(word))
		out = bannedPattern(word).ReplaceAllLiteralString(out, mask)
	}
	return out
}
