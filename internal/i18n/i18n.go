package i18n

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Localizer manages internationalization
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

// NewLocalizer creates a new localizer
func NewLocalizer(cfg *config.I18nConfig) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, lang := range cfg.Languages {
		path := filepath.Join(cfg.Directory, lang+".json")
		if _, err := bundle.LoadMessageFile(path); err != nil {
			return nil, fmt.Errorf("failed to load language file %s: %w", lang, err)
		}
	}

	localizers := make(map[string]*i18n.Localizer)
	for _, lang := range cfg.Languages {
		localizers[lang] = i18n.NewLocalizer(bundle, lang)
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: cfg.DefaultLanguage,
		localizers:      localizers,
	}, nil
}

// Get returns localized message
func (l *Localizer) Get(lang, messageID string, data map[string]interface{}) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}

// Default returns the message in the configured default language.
func (l *Localizer) Default(messageID string, data map[string]interface{}) string {
	return l.Get(l.defaultLanguage, messageID, data)
}

// Message IDs
const (
	MsgWelcome           = "welcome"
	MsgMenuPrompt        = "menu_prompt"
	MsgNotAuthorized     = "not_authorized"
	MsgWordList          = "word_list"
	MsgWordListEmpty     = "word_list_empty"
	MsgEnterWords        = "enter_words"
	MsgWordsUpdated      = "words_updated"
	MsgUpdateFailed      = "update_failed"
	MsgUnknownCommand    = "unknown_command"
	MsgRateLimitExceeded = "rate_limit_exceeded"
	MsgAlert             = "alert"
	MsgOpenMessage       = "open_message"
	BtnListWords         = "button.list_words"
	BtnChangeWords       = "button.change_words"
)
