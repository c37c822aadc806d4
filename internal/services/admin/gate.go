// Package admin answers whether a user may manage the bot in a chat.
package admin

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// MemberAPI is the slice of the bot API the gate needs. *tgbotapi.BotAPI
// satisfies it.
type MemberAPI interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Gate checks chat membership roles. Every call re-queries live
// membership; there is no caching.
type Gate struct {
	api    MemberAPI
	logger *logrus.Logger
}

func NewGate(api MemberAPI, logger *logrus.Logger) *Gate {
	return &Gate{
		api:    api,
		logger: logger,
	}
}

// IsAuthorized reports whether the user is the chat's owner or an
// administrator. Any lookup failure counts as not authorized.
func (g *Gate) IsAuthorized(chatID int64, userID int64) bool {
	member, err := g.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		g.logger.WithError(err).WithFields(logrus.Fields{
			"chat_id": chatID,
			"user_id": userID,
		}).Warn("Chat member lookup failed, treating as unauthorized")
		return false
	}

	return member.IsCreator() || member.IsAdministrator()
}
