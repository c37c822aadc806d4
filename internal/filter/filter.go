// Package filter implements the message scanning pipeline: matching
// forbidden words, highlighting hits and notifying chat administrators.
package filter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/groupguard-tgbot-go/pkg/telegram"
)

// Match returns the subset of words contained in the case-folded text.
// Triggering is substring containment; whole-word semantics apply only
// to highlighting. A word that matches here as a substring of a longer
// token will trigger a notification without any visible highlight.
func Match(words []string, text string) []string {
	folded := strings.ToLower(text)

	var hits []string
	for _, word := range words {
		if word == "" {
			continue
		}
		if strings.Contains(folded, strings.ToLower(word)) {
			hits = append(hits, word)
		}
	}
	return hits
}

// Highlight escapes the original text for Telegram HTML and wraps every
// whole-word, case-insensitive occurrence of each hit in bold+underline
// markup. Substitutions for all hits run against the same evolving text
// so several distinct words can be highlighted in one message.
func Highlight(text string, hits []string) string {
	highlighted := telegram.EscapeHTML(text)

	for _, word := range hits {
		pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(telegram.EscapeHTML(word)))
		if err != nil {
			continue
		}
		highlighted = wrapWholeWords(highlighted, pattern)
	}
	return highlighted
}

// wrapWholeWords wraps the occurrences of pattern that are not adjacent
// to a word-constituent rune. The boundary check is done on the runes
// around each match rather than with \b, which in RE2 is ASCII-only and
// never matches around non-Latin words.
func wrapWholeWords(text string, pattern *regexp.Regexp) string {
	matches := pattern.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if !wholeWord(text, m[0], m[1]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(telegram.BoldUnderline(text[m[0]:m[1]]))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func wholeWord(text string, start, end int) bool {
	before, _ := utf8.DecodeLastRuneInString(text[:start])
	after, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(before) && !isWordRune(after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
