package filter

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/groupguard-tgbot-go/internal/i18n"
	"github.com/groupguard-tgbot-go/internal/middleware"
	"github.com/groupguard-tgbot-go/internal/models"
	"github.com/groupguard-tgbot-go/pkg/telegram"
	"github.com/sirupsen/logrus"
)

// BotAPI is the slice of the bot API the notifier needs.
// *tgbotapi.BotAPI satisfies it.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChatAdministrators(config tgbotapi.ChatAdministratorsConfig) ([]tgbotapi.ChatMember, error)
}

// WordSource supplies the current forbidden-word set.
type WordSource interface {
	Words() []string
}

// Notifier scans messages and alerts the chat's human administrators
// when a forbidden word is found.
type Notifier struct {
	api       BotAPI
	words     WordSource
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

func NewNotifier(
	api BotAPI,
	words WordSource,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *Notifier {
	return &Notifier{
		api:       api,
		words:     words,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Process runs one message through the pipeline. Clean messages are
// left alone; a flagged message produces one private alert per human
// administrator, each send independent of the others.
func (n *Notifier) Process(message *tgbotapi.Message) error {
	n.metrics.RecordMessageScanned()

	hits := Match(n.words.Words(), message.Text)
	if len(hits) == 0 {
		return nil
	}

	n.metrics.RecordMessageFlagged()
	n.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"hits":    len(hits),
	}).Info("Forbidden word detected")

	alert := n.buildAlert(message, hits)

	admins, err := n.chatAdmins(message.Chat.ID)
	if err != nil {
		return fmt.Errorf("resolve chat administrators: %w", err)
	}

	text := n.localizer.Default(i18n.MsgAlert, map[string]interface{}{
		"ChatLink":    alert.ChatLink,
		"Sender":      telegram.EscapeHTML(alert.SenderName),
		"Username":    telegram.EscapeHTML(alert.SenderUsername),
		"Body":        alert.HighlightedBody,
		"MessageLink": alert.MessageLink,
	})

	var wg sync.WaitGroup
	for _, admin := range admins {
		wg.Add(1)
		go func(admin models.ChatAdmin) {
			defer wg.Done()
			n.send(admin, text)
		}(admin)
	}
	wg.Wait()

	return nil
}

// maxBodyRunes keeps the alert under Telegram's message size limit
// after markup and the surrounding template are added.
const maxBodyRunes = 3000

func (n *Notifier) buildAlert(message *tgbotapi.Message, hits []string) models.Alert {
	return models.Alert{
		ChatLink:        telegram.Link(ChatURL(message.Chat), message.Chat.Title),
		SenderName:      displayName(message.From),
		SenderUsername:  message.From.UserName,
		HighlightedBody: Highlight(telegram.Truncate(message.Text, maxBodyRunes), hits),
		MessageLink: telegram.Link(
			MessageURL(message.Chat.ID, message.MessageID),
			n.localizer.Default(i18n.MsgOpenMessage, nil),
		),
	}
}

// chatAdmins fetches the current administrator snapshot, dropping bot
// accounts. No caching: the snapshot lives for this invocation only.
func (n *Notifier) chatAdmins(chatID int64) ([]models.ChatAdmin, error) {
	members, err := n.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, err
	}

	var admins []models.ChatAdmin
	for _, member := range members {
		if member.User == nil || member.User.IsBot {
			continue
		}
		if !member.IsCreator() && !member.IsAdministrator() {
			continue
		}
		admins = append(admins, models.ChatAdmin{
			UserID:   member.User.ID,
			FullName: displayName(member.User),
			Username: member.User.UserName,
		})
	}
	return admins, nil
}

// send delivers one alert. Failures are logged and swallowed: an
// administrator who never opened a private chat with the bot must not
// block delivery to the others.
func (n *Notifier) send(admin models.ChatAdmin, text string) {
	msg := tgbotapi.NewMessage(admin.UserID, text)
	msg.ParseMode = "HTML"

	if _, err := n.api.Send(msg); err != nil {
		n.metrics.RecordNotification("failed")
		n.logger.WithError(err).WithFields(logrus.Fields{
			"admin_id":   admin.UserID,
			"admin_name": admin.FullName,
		}).Warn("Failed to notify administrator")
		return
	}
	n.metrics.RecordNotification("sent")
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
