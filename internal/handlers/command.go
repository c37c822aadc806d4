package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/groupguard-tgbot-go/internal/i18n"
	"github.com/groupguard-tgbot-go/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Sender is the sending slice of the bot API. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Authorizer answers whether a user may manage the bot in a chat.
type Authorizer interface {
	IsAuthorized(chatID int64, userID int64) bool
}

// CommandHandler handles telegram commands
type CommandHandler struct {
	api         Sender
	config      *config.Config
	gate        Authorizer
	rateLimiter middleware.RateLimiter
	localizer   *i18n.Localizer
	scanner     Scanner
	metrics     *middleware.Metrics
	logger      *logrus.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(
	api Sender,
	cfg *config.Config,
	gate Authorizer,
	rateLimiter middleware.RateLimiter,
	localizer *i18n.Localizer,
	scanner Scanner,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *CommandHandler {
	return &CommandHandler{
		api:         api,
		config:      cfg,
		gate:        gate,
		rateLimiter: rateLimiter,
		localizer:   localizer,
		scanner:     scanner,
		metrics:     metrics,
		logger:      logger,
	}
}

// HandleCommand processes telegram commands
func (h *CommandHandler) HandleCommand(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	userID := message.From.ID
	command := message.Command()

	h.metrics.RecordCommandExecuted(command)

	switch command {
	case "start":
		if !h.authorize(message) {
			return nil
		}
		return h.reply(chatID, h.localizer.Default(i18n.MsgWelcome, nil), true)
	case "menu":
		if !h.authorize(message) {
			return nil
		}
		return h.reply(chatID, h.localizer.Default(i18n.MsgMenuPrompt, nil), true)
	default:
		// Group chats carry plenty of slash commands meant for other
		// bots; answer unknown commands only in private. In groups the
		// message still goes through the filter pipeline, otherwise a
		// leading slash would be enough to dodge it.
		if message.Chat.IsPrivate() {
			return h.reply(chatID, h.localizer.Default(i18n.MsgUnknownCommand, nil), false)
		}
		h.logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"user_id": userID,
			"command": command,
		}).Debug("Scanning unknown command")
		return h.scanner.Process(message)
	}
}

// authorize checks the rate limit and admin gate, answering the user on
// rejection. It reports whether the command may proceed.
func (h *CommandHandler) authorize(message *tgbotapi.Message) bool {
	if !h.rateLimiter.Allow(message.From.ID) {
		h.replyTo(message, h.localizer.Default(i18n.MsgRateLimitExceeded, nil))
		return false
	}

	authorized := h.gate.IsAuthorized(message.Chat.ID, message.From.ID)
	h.metrics.RecordAuthCheck(authorized)
	if !authorized {
		h.replyTo(message, h.localizer.Default(i18n.MsgNotAuthorized, nil))
		return false
	}
	return true
}

func (h *CommandHandler) reply(chatID int64, text string, withMenu bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if withMenu {
		msg.ReplyMarkup = h.menuKeyboard()
	}
	_, err := h.api.Send(msg)
	return err
}

func (h *CommandHandler) replyTo(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.api.Send(msg); err != nil {
		h.logger.WithError(err).Error("Failed to send reply")
	}
}

func (h *CommandHandler) menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(h.localizer.Default(i18n.BtnListWords, nil)),
			tgbotapi.NewKeyboardButton(h.localizer.Default(i18n.BtnChangeWords, nil)),
		),
	)
}
