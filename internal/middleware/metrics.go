package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Message metrics
	messagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_messages_received_total",
		Help: "Total number of messages received",
	}, []string{"chat_type"})

	messagesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modbot_messages_scanned_total",
		Help: "Total number of messages run through the word filter",
	})

	messagesFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modbot_messages_flagged_total",
		Help: "Total number of messages containing a forbidden word",
	})

	// Command metrics
	commandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_commands_executed_total",
		Help: "Total number of commands executed",
	}, []string{"command"})

	// Notification metrics
	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_admin_notifications_total",
		Help: "Total number of admin notifications attempted",
	}, []string{"status"})

	// Authorization metrics
	authChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_authorization_checks_total",
		Help: "Total number of admin authorization checks",
	}, []string{"outcome"})

	// Word list metrics
	wordListReplacements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_wordlist_replacements_total",
		Help: "Total number of word list replacements",
	}, []string{"status"})

	wordListSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modbot_wordlist_size",
		Help: "Current number of forbidden words",
	})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordMessageReceived records a received message
func (m *Metrics) RecordMessageReceived(chatType string) {
	messagesReceived.WithLabelValues(chatType).Inc()
}

// RecordMessageScanned records a message run through the filter
func (m *Metrics) RecordMessageScanned() {
	messagesScanned.Inc()
}

// RecordMessageFlagged records a message that contained a forbidden word
func (m *Metrics) RecordMessageFlagged() {
	messagesFlagged.Inc()
}

// RecordCommandExecuted records an executed command
func (m *Metrics) RecordCommandExecuted(command string) {
	commandsExecuted.WithLabelValues(command).Inc()
}

// RecordNotification records one admin notification attempt
func (m *Metrics) RecordNotification(status string) {
	notificationsSent.WithLabelValues(status).Inc()
}

// RecordAuthCheck records an authorization check outcome
func (m *Metrics) RecordAuthCheck(authorized bool) {
	outcome := "denied"
	if authorized {
		outcome = "granted"
	}
	authChecks.WithLabelValues(outcome).Inc()
}

// RecordWordListReplacement records a word list replacement attempt
func (m *Metrics) RecordWordListReplacement(status string) {
	wordListReplacements.WithLabelValues(status).Inc()
}

// SetWordListSize sets the current word list size
func (m *Metrics) SetWordListSize(count int) {
	wordListSize.Set(float64(count))
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
