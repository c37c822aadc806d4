// Package session tracks per-user conversation state for the admin menu.
package session

import (
	"sync"

	"github.com/groupguard-tgbot-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Service is the per-user conversation state map. States are keyed by
// user ID only, so a prompt opened in one chat is completed by that
// user's next message in any chat. States are ephemeral and never
// persisted; there is no timeout on an open prompt.
type Service struct {
	mu     sync.Mutex
	states map[int64]models.ConversationState
	logger *logrus.Logger
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		states: make(map[int64]models.ConversationState),
		logger: logger,
	}
}

// Get returns the user's current state, StateIdle when none is set.
func (s *Service) Get(userID int64) models.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[userID]; ok {
		return state
	}
	return models.StateIdle
}

// Await marks the user's next message for consumption as a word list.
func (s *Service) Await(userID int64) {
	s.mu.Lock()
	s.states[userID] = models.StateAwaitingWordList
	s.mu.Unlock()

	s.logger.WithField("user_id", userID).Debug("Awaiting word list")
}

// TakeAwaiting atomically clears an awaiting state and reports whether
// one was set, so a submission is consumed exactly once even when a
// user's messages are handled concurrently.
func (s *Service) TakeAwaiting(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[userID] != models.StateAwaitingWordList {
		return false
	}
	delete(s.states, userID)
	return true
}

// Clear removes any state for the user.
func (s *Service) Clear(userID int64) {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
}
