package telegram

import (
	"sync"
	"time"

	"OrtPrepBot/internal/broadcast"
)

// Conversation is the state of a multi-step interaction for one chat.
// Each variant carries exactly the data its step needs; a type switch in
// handleSessionInput routes the next message.
type Conversation interface {
	conversation()
}

// Score calculation flow.
type awaitingPercentageScores struct {
	Lang string
}

type awaitingCorrectAnswers struct {
	Lang string
}

// Profile creation flow.
type awaitingProfileName struct {
	Lang string
}

type awaitingProfileScore struct {
	Lang     string
	FullName string
}

// Broadcast composition flow (admin only).
type awaitingBroadcastContent struct{}

type choosingBroadcastTarget struct {
	Payload broadcast.Payload
}

type choosingPinOption struct {
	Payload broadcast.Payload
}

type awaitingFinalConfirm struct {
	Payload  broadcast.Payload
	ToGroups bool
	Pin      broadcast.PinMode
}

// Admin management flow (owner only).
type awaitingAdminID struct {
	Remove bool
}

func (awaitingPercentageScores) conversation() {}
func (awaitingCorrectAnswers) conversation()   {}
func (awaitingProfileName) conversation()      {}
func (awaitingProfileScore) conversation()     {}
func (awaitingBroadcastContent) conversation() {}
func (choosingBroadcastTarget) conversation()  {}
func (choosingPinOption) conversation()        {}
func (awaitingFinalConfirm) conversation()     {}
func (awaitingAdminID) conversation()          {}

// sessionTTL is the inactivity timeout for a conversation.
const sessionTTL = 5 * time.Minute

type session struct {
	conv      Conversation
	expiresAt time.Time
}

// sessions stores active conversations keyed by chat ID.
type sessionStore struct {
	mu   sync.RWMutex
	data map[int64]session
}

func newSessionStore() *sessionStore {
	return &sessionStore{data: make(map[int64]session)}
}

func (s *sessionStore) get(chatID int64) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[chatID]
	if !ok || time.Now().After(sess.expiresAt) {
		return nil, false
	}
	return sess.conv, true
}

func (s *sessionStore) set(chatID int64, conv Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[chatID] = session{
		conv:      conv,
		expiresAt: time.Now().Add(sessionTTL),
	}
}

func (s *sessionStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, chatID)
}
