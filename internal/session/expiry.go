package session

import (
	"context"
	"fmt"
	"time"

	"github.com/developia-II/langobridge/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// tokenExpiry reads the exp claim without verifying the signature. A token
// without exp yields the zero time.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("decode exp: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Check clears the session when its token is undecodable or past exp.
func (m *Manager) Check() bool {
	s, ok := m.Current()
	if !ok {
		return false
	}

	expiry, err := tokenExpiry(s.Token)
	if err == nil && (expiry.IsZero() || expiry.After(m.now())) {
		return true
	}
	if err != nil {
		m.log.Warn("stored token is undecodable", zap.Error(err))
	}

	m.mu.Lock()
	if m.session == nil || m.session.Token != s.Token {
		m.mu.Unlock()
		return m.session != nil
	}
	m.session = nil
	m.mu.Unlock()

	if err := m.store.Delete(storage.KeySession); err != nil {
		m.log.Warn("failed to clear stored session", zap.Error(err))
	}
	m.log.Info("session expired", zap.String("email", s.User.Email))
	m.notes.Error("Session expired. Please log in again.")
	m.broadcast(Event{Kind: EventExpired, Session: s})
	return false
}

// Run checks on start, on every login and on each tick until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check()
		case <-m.recheck:
			m.Check()
		}
	}
}
