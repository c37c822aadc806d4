package filter

import (
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/groupguard-tgbot-go/internal/i18n"
	"github.com/groupguard-tgbot-go/internal/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	mu      sync.Mutex
	admins  []tgbotapi.ChatMember
	failFor map[int64]bool
	sent    []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("forbidden: bot can't initiate conversation with a user")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) GetChatAdministrators(cfg tgbotapi.ChatAdministratorsConfig) ([]tgbotapi.ChatMember, error) {
	return f.admins, nil
}

func (f *fakeBot) sentTo() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, 0, len(f.sent))
	for _, msg := range f.sent {
		ids = append(ids, msg.ChatID)
	}
	return ids
}

type staticWords []string

func (s staticWords) Words() []string { return s }

func testLocalizer(t *testing.T) *i18n.Localizer {
	t.Helper()

	localizer, err := i18n.NewLocalizer(&config.I18nConfig{
		DefaultLanguage: "en",
		Languages:       []string{"en"},
		Directory:       "../../configs/i18n",
	})
	require.NoError(t, err)
	return localizer
}

func testNotifier(t *testing.T, bot *fakeBot, words []string) *Notifier {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewNotifier(bot, staticWords(words), testLocalizer(t), middleware.NewMetrics(), log)
}

func groupMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 42,
		Chat:      &tgbotapi.Chat{ID: -1005551234, Title: "Test Chat", Type: "supergroup"},
		From:      &tgbotapi.User{ID: 9, FirstName: "Eve", UserName: "eve"},
		Text:      text,
	}
}

func human(id int64, status string) tgbotapi.ChatMember {
	return tgbotapi.ChatMember{
		User:   &tgbotapi.User{ID: id, FirstName: "Admin"},
		Status: status,
	}
}

func TestProcessCleanMessageSendsNothing(t *testing.T) {
	bot := &fakeBot{admins: []tgbotapi.ChatMember{human(1, "creator")}}
	n := testNotifier(t, bot, []string{"spam"})

	require.NoError(t, n.Process(groupMessage("hello there")))
	assert.Empty(t, bot.sentTo())
}

func TestProcessNotifiesEveryHumanAdmin(t *testing.T) {
	bot := &fakeBot{admins: []tgbotapi.ChatMember{
		human(1, "creator"),
		human(2, "administrator"),
	}}
	n := testNotifier(t, bot, []string{"spam"})

	require.NoError(t, n.Process(groupMessage("buy spam now")))
	assert.ElementsMatch(t, []int64{1, 2}, bot.sentTo())
}

func TestProcessExcludesBotAdmins(t *testing.T) {
	botAdmin := tgbotapi.ChatMember{
		User:   &tgbotapi.User{ID: 2, FirstName: "Helper", IsBot: true},
		Status: "administrator",
	}
	bot := &fakeBot{admins: []tgbotapi.ChatMember{human(1, "creator"), botAdmin}}
	n := testNotifier(t, bot, []string{"spam"})

	require.NoError(t, n.Process(groupMessage("spam again")))
	assert.Equal(t, []int64{1}, bot.sentTo())
}

func TestProcessIsolatesDeliveryFailures(t *testing.T) {
	bot := &fakeBot{
		admins: []tgbotapi.ChatMember{
			human(1, "creator"),
			human(2, "administrator"),
		},
		failFor: map[int64]bool{1: true},
	}
	n := testNotifier(t, bot, []string{"spam"})

	// A failed send to one admin is swallowed; the other still gets theirs.
	require.NoError(t, n.Process(groupMessage("spam for all")))
	assert.Equal(t, []int64{2}, bot.sentTo())
}

func TestProcessAlertBody(t *testing.T) {
	bot := &fakeBot{admins: []tgbotapi.ChatMember{human(1, "creator")}}
	n := testNotifier(t, bot, []string{"spam"})

	require.NoError(t, n.Process(groupMessage("ignore the spam please")))
	require.Len(t, bot.sent, 1)

	alert := bot.sent[0]
	assert.Equal(t, "HTML", alert.ParseMode)
	assert.Contains(t, alert.Text, "<b><u>spam</u></b>")
	assert.Contains(t, alert.Text, "https://t.me/c/5551234")
	assert.Contains(t, alert.Text, "https://t.me/c/5551234/42")
	assert.Contains(t, alert.Text, "Eve")
	assert.Contains(t, alert.Text, "@eve")
}
