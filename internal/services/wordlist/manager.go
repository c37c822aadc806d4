package wordlist

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/sirupsen/logrus"
)

// Manager owns the current forbidden-word set. Reads take a snapshot;
// Replace persists first and swaps the in-memory set only on success, so
// a failed update leaves the previous list serving.
type Manager struct {
	mu     sync.RWMutex
	words  []string
	store  Store
	logger *logrus.Logger
}

// NewManager creates a manager over the configured backend and loads the
// persisted list. A missing document is not an error.
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	store, err := NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStore(context.Background(), store, logger)
}

// NewManagerWithStore creates a manager over an explicit backend.
func NewManagerWithStore(ctx context.Context, store Store, logger *logrus.Logger) (*Manager, error) {
	words, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}

	m := &Manager{
		words:  Normalize(words),
		store:  store,
		logger: logger,
	}
	logger.WithField("words", len(m.words)).Info("Word list loaded")
	return m, nil
}

// Words returns a snapshot of the current set.
func (m *Manager) Words() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make([]string, len(m.words))
	copy(snapshot, m.words)
	return snapshot
}

// Replace parses a comma-separated submission, persists the normalized
// set and makes it current. The returned slice is the new set.
func (m *Manager) Replace(ctx context.Context, raw string) ([]string, error) {
	words := Normalize(strings.Split(raw, ","))

	if err := m.store.Save(ctx, words); err != nil {
		return nil, fmt.Errorf("persist word list: %w", err)
	}

	m.mu.Lock()
	m.words = words
	m.mu.Unlock()

	m.logger.WithField("words", len(words)).Info("Word list replaced")
	return words, nil
}

// Normalize trims entries, drops empties, case-folds and de-duplicates.
// The result is sorted so list renderings are stable.
func Normalize(parts []string) []string {
	seen := make(map[string]struct{}, len(parts))
	words := make([]string, 0, len(parts))

	for _, part := range parts {
		word := strings.ToLower(strings.TrimSpace(part))
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}

	sort.Strings(words)
	return words
}
