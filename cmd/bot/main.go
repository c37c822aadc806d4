package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/groupguard-tgbot-go/internal/filter"
	"github.com/groupguard-tgbot-go/internal/handlers"
	"github.com/groupguard-tgbot-go/internal/i18n"
	"github.com/groupguard-tgbot-go/internal/middleware"
	"github.com/groupguard-tgbot-go/internal/services/admin"
	"github.com/groupguard-tgbot-go/internal/services/session"
	"github.com/groupguard-tgbot-go/internal/services/wordlist"
	"github.com/groupguard-tgbot-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting moderation bot...")

	bot, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.WithError(err).Fatal("Failed to create bot")
	}

	bot.Debug = cfg.Logging.Level == "debug"
	log.WithField("username", bot.Self.UserName).Info("Bot authorized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	words, err := wordlist.NewManager(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize word list store")
	}

	sessions := session.NewService(log)
	gate := admin.NewGate(bot, log)
	rateLimiter := middleware.NewRateLimiter(cfg, log)
	metrics := middleware.NewMetrics()
	metrics.SetWordListSize(len(words.Words()))

	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	notifier := filter.NewNotifier(bot, words, localizer, metrics, log)

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Initialize handlers
	commandHandler := handlers.NewCommandHandler(
		bot,
		cfg,
		gate,
		rateLimiter,
		localizer,
		notifier,
		metrics,
		log,
	)

	messageHandler := handlers.NewMessageHandler(
		bot,
		cfg,
		gate,
		words,
		sessions,
		notifier,
		rateLimiter,
		localizer,
		metrics,
		log,
	)

	// Setup update channel
	var updates tgbotapi.UpdatesChannel

	if cfg.Bot.Webhook.Enabled {
		webhookURL := fmt.Sprintf("%s/%s", cfg.Bot.Webhook.URL, bot.Token)
		webhook, err := tgbotapi.NewWebhook(webhookURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to create webhook")
		}

		if _, err := bot.Request(webhook); err != nil {
			log.WithError(err).Fatal("Failed to set webhook")
		}

		updates = bot.ListenForWebhook("/" + bot.Token)
		log.WithField("url", webhookURL).Info("Webhook set")
	} else {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = cfg.Bot.UpdateTimeout

		updates = bot.GetUpdatesChan(u)
		log.Info("Using long polling")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Main bot loop. Each update is handled on its own goroutine;
	// Telegram's delivery cadence is the only throttle.
	go func() {
		for update := range updates {
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			// Ignore the bot's own messages
			if update.Message.From.ID == bot.Self.ID {
				continue
			}

			chatType := "private"
			if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
				chatType = "group"
			}
			metrics.RecordMessageReceived(chatType)

			message := update.Message
			go func() {
				if message.IsCommand() {
					if err := commandHandler.HandleCommand(message); err != nil {
						log.WithError(err).Error("Failed to handle command")
					}
					return
				}

				if err := messageHandler.HandleMessage(ctx, message); err != nil {
					log.WithError(err).Error("Failed to handle message")
				}
			}()
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("Shutdown signal received")

	if cfg.Bot.Webhook.Enabled {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.WithError(err).Error("Failed to delete webhook")
		}
	}

	cancel()

	// Give in-flight handlers time to finish
	time.Sleep(2 * time.Second)

	log.Info("Bot stopped")
}
