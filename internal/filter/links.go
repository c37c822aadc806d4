package filter

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// internalChatID strips the fixed -100 prefix Telegram puts on
// supergroup chat IDs, leaving the numeric ID deep links use.
func internalChatID(chatID int64) int64 {
	s := strconv.FormatInt(chatID, 10)
	if strings.HasPrefix(s, "-100") {
		id, err := strconv.ParseInt(s[len("-100"):], 10, 64)
		if err == nil {
			return id
		}
	}
	if chatID < 0 {
		return -chatID
	}
	return chatID
}

// ChatURL builds a link to the chat, via its public username when it
// has one and the internal c/<id> path otherwise.
func ChatURL(chat *tgbotapi.Chat) string {
	if chat.UserName != "" {
		return "https://t.me/" + chat.UserName
	}
	return fmt.Sprintf("https://t.me/c/%d", internalChatID(chat.ID))
}

// MessageURL builds a deep link to one message in the chat.
func MessageURL(chatID int64, messageID int) string {
	return fmt.Sprintf("https://t.me/c/%d/%d", internalChatID(chatID), messageID)
}
