// Package telegram holds helpers for composing Telegram HTML messages.
package telegram

import (
	"fmt"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes the characters Telegram's HTML parse mode reserves.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// BoldUnderline wraps text in bold+underline markup. The text must
// already be escaped.
func BoldUnderline(text string) string {
	return "<b><u>" + text + "</u></b>"
}

// Link renders an inline hyperlink with an escaped label.
func Link(url, label string) string {
	return fmt.Sprintf("<a href='%s'>%s</a>", url, EscapeHTML(label))
}

// Truncate shortens text to at most n runes, appending an ellipsis.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
