package main

import (
	"sync"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

// searchSession - последний поиск жилья пользователя; кнопки "в корзину" ссылаются на его результаты.
type searchSession struct {
	Location string
	Checkin  string
	Checkout string
	Listings []model.Listing
	savedAt  time.Time
}

// sessionTTL - сколько живут результаты поиска; кнопки под старыми результатами перестают работать.
const sessionTTL = 2 * time.Hour

// sessionStore хранит результаты последнего поиска по Telegram ID пользователя.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]searchSession
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{sessions: make(map[int64]searchSession), ttl: ttl, now: time.Now}
}

// Save запоминает результаты поиска, заменяя предыдущие, и забывает устаревшие поиски.
func (s *sessionStore) Save(telegramID int64, sess searchSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, old := range s.sessions {
		if s.expired(old, now) {
			delete(s.sessions, id)
		}
	}
	sess.savedAt = now
	s.sessions[telegramID] = sess
}

func (s *sessionStore) expired(sess searchSession, now time.Time) bool {
	return now.Sub(sess.savedAt) > s.ttl
}


// Listing возвращает вариант из последнего поиска по номеру.
func (s *sessionStore) Listing(telegramID int64, index int) (searchSession, model.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[telegramID]
	if ok && s.expired(sess, s.now()) {
		delete(s.sessions, telegramID)
		ok = false
	}
	if !ok || index < 0 || index >= len(sess.Listings) {
		return searchSession{}, model.Listing{}, false
	}
	return sess, sess.Listings[index], true
}

// Clear забывает результаты поиска пользователя.
func (s *sessionStore) Clear(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, telegramID)
}
