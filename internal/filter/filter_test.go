package filter

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestMatchSubstringTrigger(t *testing.T) {
	// Triggering is plain substring containment, case-insensitive.
	hits := Match([]string{"spam"}, "this is SPAMtastic")
	assert.Equal(t, []string{"spam"}, hits)
}

func TestMatchCaseInsensitive(t *testing.T) {
	hits := Match([]string{"крипта"}, "Покупайте КРИПТА сегодня")
	assert.Equal(t, []string{"крипта"}, hits)
}

func TestMatchNoHit(t *testing.T) {
	hits := Match([]string{"spam", "scam"}, "a perfectly fine message")
	assert.Empty(t, hits)
}

func TestMatchMultipleWords(t *testing.T) {
	hits := Match([]string{"spam", "scam", "free"}, "free spam inside")
	assert.Equal(t, []string{"spam", "free"}, hits)
}

func TestMatchEmptySet(t *testing.T) {
	assert.Empty(t, Match(nil, "anything"))
	assert.Empty(t, Match([]string{""}, "anything"))
}

func TestHighlightWholeWord(t *testing.T) {
	out := Highlight("the cat sat", []string{"cat"})
	assert.Equal(t, "the <b><u>cat</u></b> sat", out)
}

func TestHighlightKeepsOriginalCase(t *testing.T) {
	out := Highlight("the Cat sat", []string{"cat"})
	assert.Equal(t, "the <b><u>Cat</u></b> sat", out)
}

func TestHighlightSkipsEmbeddedOccurrence(t *testing.T) {
	// "cat" inside "concatenate" is not a whole-word occurrence.
	out := Highlight("please concatenate the cat files", []string{"cat"})
	assert.Equal(t, "please concatenate the <b><u>cat</u></b> files", out)
}

// A word that triggers via substring containment but has no whole-word
// occurrence produces an alert body with no visible highlighting.
func TestHighlightTriggerWithoutVisibleHighlight(t *testing.T) {
	text := "this is SPAMtastic"
	hits := Match([]string{"spam"}, text)
	assert.NotEmpty(t, hits)

	out := Highlight(text, hits)
	assert.Equal(t, "this is SPAMtastic", out)
	assert.NotContains(t, out, "<b>")
}

func TestHighlightCyrillicWholeWord(t *testing.T) {
	// Word boundaries must hold for non-Latin scripts too; \b in RE2
	// only knows ASCII word characters.
	out := Highlight("Покупайте крипта сегодня", []string{"крипта"})
	assert.Equal(t, "Покупайте <b><u>крипта</u></b> сегодня", out)
}

func TestHighlightCyrillicCaseInsensitive(t *testing.T) {
	out := Highlight("Покупайте КРИПТА сегодня", []string{"крипта"})
	assert.Equal(t, "Покупайте <b><u>КРИПТА</u></b> сегодня", out)
}

func TestHighlightCyrillicSkipsEmbeddedOccurrence(t *testing.T) {
	out := Highlight("кот сидит, и который тоже", []string{"кот"})
	assert.Equal(t, "<b><u>кот</u></b> сидит, и который тоже", out)
}

func TestHighlightAdjacentOccurrences(t *testing.T) {
	out := Highlight("cat cat cat", []string{"cat"})
	assert.Equal(t, "<b><u>cat</u></b> <b><u>cat</u></b> <b><u>cat</u></b>", out)
}

func TestHighlightMultipleWords(t *testing.T) {
	out := Highlight("spam and scam", []string{"spam", "scam"})
	assert.Equal(t, "<b><u>spam</u></b> and <b><u>scam</u></b>", out)
}

func TestHighlightEscapesHTML(t *testing.T) {
	out := Highlight("<script> spam & co", []string{"spam"})
	assert.Equal(t, "&lt;script&gt; <b><u>spam</u></b> &amp; co", out)
}

func TestChatURLPublicUsername(t *testing.T) {
	chat := &tgbotapi.Chat{ID: -1001234567890, UserName: "mychat"}
	assert.Equal(t, "https://t.me/mychat", ChatURL(chat))
}

func TestChatURLInternalID(t *testing.T) {
	chat := &tgbotapi.Chat{ID: -1001234567890}
	assert.Equal(t, "https://t.me/c/1234567890", ChatURL(chat))
}

func TestChatURLPlainGroup(t *testing.T) {
	// Basic groups have a plain negative ID, no -100 prefix to strip.
	chat := &tgbotapi.Chat{ID: -987654}
	assert.Equal(t, "https://t.me/c/987654", ChatURL(chat))
}

func TestMessageURL(t *testing.T) {
	assert.Equal(t, "https://t.me/c/1234567890/55", MessageURL(-1001234567890, 55))
}
