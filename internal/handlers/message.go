package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/groupguard-tgbot-go/internal/i18n"
	"github.com/groupguard-tgbot-go/internal/middleware"
	"github.com/groupguard-tgbot-go/internal/services/session"
	"github.com/groupguard-tgbot-go/internal/services/wordlist"
	"github.com/sirupsen/logrus"
)

// Scanner runs one message through the filter pipeline.
type Scanner interface {
	Process(message *tgbotapi.Message) error
}

// MessageHandler routes non-command text messages: menu-label actions,
// word-list submissions from an awaiting user, and everything else into
// the filter pipeline.
type MessageHandler struct {
	api         Sender
	config      *config.Config
	gate        Authorizer
	words       *wordlist.Manager
	sessions    *session.Service
	scanner     Scanner
	rateLimiter middleware.RateLimiter
	localizer   *i18n.Localizer
	metrics     *middleware.Metrics
	logger      *logrus.Logger

	listLabel   string
	changeLabel string
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(
	api Sender,
	cfg *config.Config,
	gate Authorizer,
	words *wordlist.Manager,
	sessions *session.Service,
	scanner Scanner,
	rateLimiter middleware.RateLimiter,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *MessageHandler {
	return &MessageHandler{
		api:         api,
		config:      cfg,
		gate:        gate,
		words:       words,
		sessions:    sessions,
		scanner:     scanner,
		rateLimiter: rateLimiter,
		localizer:   localizer,
		metrics:     metrics,
		logger:      logger,
		// Label texts are matched exactly, resolved once in the
		// default language.
		listLabel:   localizer.Default(i18n.BtnListWords, nil),
		changeLabel: localizer.Default(i18n.BtnChangeWords, nil),
	}
}

// HandleMessage processes one non-command message.
func (h *MessageHandler) HandleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.From == nil || message.Text == "" {
		return nil
	}

	switch message.Text {
	case h.listLabel:
		return h.handleListWords(message)
	case h.changeLabel:
		return h.handleChangeWords(message)
	}

	// A user who was prompted for a replacement list consumes this
	// message as the submission, whatever it contains. Authorization
	// was established when the prompt was opened and is not re-checked.
	if h.sessions.TakeAwaiting(message.From.ID) {
		return h.handleWordListSubmission(ctx, message)
	}

	return h.scanner.Process(message)
}

func (h *MessageHandler) handleListWords(message *tgbotapi.Message) error {
	if !h.authorize(message) {
		return nil
	}

	words := h.words.Words()
	text := h.localizer.Default(i18n.MsgWordListEmpty, nil)
	if len(words) > 0 {
		text = h.localizer.Default(i18n.MsgWordList, map[string]interface{}{
			"Words": renderWords(words),
		})
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	_, err := h.api.Send(msg)
	return err
}

func (h *MessageHandler) handleChangeWords(message *tgbotapi.Message) error {
	if !h.authorize(message) {
		return nil
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, h.localizer.Default(i18n.MsgEnterWords, nil))
	if _, err := h.api.Send(msg); err != nil {
		return err
	}

	h.sessions.Await(message.From.ID)
	return nil
}

func (h *MessageHandler) handleWordListSubmission(ctx context.Context, message *tgbotapi.Message) error {
	words, err := h.words.Replace(ctx, message.Text)
	if err != nil {
		h.metrics.RecordWordListReplacement("error")
		h.logger.WithError(err).WithField("user_id", message.From.ID).
			Error("Failed to replace word list")

		msg := tgbotapi.NewMessage(message.Chat.ID, h.localizer.Default(i18n.MsgUpdateFailed, nil))
		if _, sendErr := h.api.Send(msg); sendErr != nil {
			h.logger.WithError(sendErr).Error("Failed to send update failure reply")
		}
		return err
	}

	h.metrics.RecordWordListReplacement("success")
	h.metrics.SetWordListSize(len(words))

	// An empty submission yields an empty set and disables the filter;
	// that is a valid update, not an error.
	text := h.localizer.Default(i18n.MsgWordListEmpty, nil)
	if len(words) > 0 {
		text = h.localizer.Default(i18n.MsgWordsUpdated, map[string]interface{}{
			"Words": renderWords(words),
		})
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	_, err = h.api.Send(msg)
	return err
}

// authorize mirrors CommandHandler.authorize for menu-label actions.
func (h *MessageHandler) authorize(message *tgbotapi.Message) bool {
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

func (h *MessageHandler) replyTo(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.api.Send(msg); err != nil {
		h.logger.WithError(err).Error("Failed to send reply")
	}
}

func renderWords(words []string) string {
	var b strings.Builder
	for i, word := range words {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("→ ")
		b.WriteString(word)
	}
	return b.String()
}
