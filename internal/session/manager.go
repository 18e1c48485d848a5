// Package session owns the signed-in user: login, logout, password flows and the
// periodic expiry check.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/notify"
	"github.com/developia-II/langobridge/internal/storage"
	"go.uber.org/zap"
)

const DefaultCheckInterval = 60 * time.Second

var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrExpiredToken  = errors.New("received an expired token")
	ErrInvalidToken  = errors.New("received an invalid token")
	ErrNoChanges     = errors.New("no changes to save")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

type EventKind string

const (
	EventLogin   EventKind = "login"
	EventLogout  EventKind = "logout"
	EventExpired EventKind = "expired"
	EventUpdated EventKind = "updated"
)

type Event struct {
	Kind    EventKind
	Session models.Session
}

type Manager struct {
	auth     backend.Auth
	store    storage.Store
	notes    notify.Notifier
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	session *models.Session
	pending int
	subs    map[int]chan Event
	nextSub int
	recheck chan struct{}
}

// New restores a persisted session if one is present and still valid.
func New(auth backend.Auth, store storage.Store, notes notify.Notifier, interval time.Duration, log *zap.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	m := &Manager{
		auth:     auth,
		store:    store,
		notes:    notes,
		log:      log,
		interval: interval,
		now:      time.Now,
		subs:     make(map[int]chan Event),
		recheck:  make(chan struct{}, 1),
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	var s models.Session
	if err := m.store.Get(storage.KeySession, &s); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warn("failed to restore session", zap.Error(err))
		}
		return
	}
	if s.Token == "" {
		_ = m.store.Delete(storage.KeySession)
		return
	}
	m.session = &s
	m.log.Info("session restored", zap.String("email", s.User.Email))
}

// Login reports success only; the reason is published as a notice.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	return m.LoginErr(ctx, email, password) == nil
}

func (m *Manager) LoginErr(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.pending--
		m.mu.Unlock()
	}()

	resp, err := m.auth.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		m.log.Warn("login failed", zap.String("email", email), zap.Error(err))
		m.notes.Error(err.Error())
		return fmt.Errorf("login: %w", err)
	}

	expiry, err := tokenExpiry(resp.Token)
	if err != nil {
		m.log.Warn("login returned undecodable token", zap.Error(err))
		m.notes.Error(ErrInvalidToken.Error())
		return ErrInvalidToken
	}
	if !expiry.IsZero() && !expiry.After(m.now()) {
		m.notes.Error(ErrExpiredToken.Error())
		return ErrExpiredToken
	}

	s := models.Session{User: resp.User, Token: resp.Token, Expiry: expiry}
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()

	m.persist(s)
	m.log.Info("logged in", zap.String("email", s.User.Email))
	m.notes.Success("Logged in successfully")
	m.broadcast(Event{Kind: EventLogin, Session: s})
	m.poke()
	return nil
}

// Logout always succeeds and clears both memory and storage.
func (m *Manager) Logout() {
	m.mu.Lock()
	prev := m.session
	m.session = nil
	m.mu.Unlock()

	if err := m.store.Delete(storage.KeySession); err != nil {
		m.log.Warn("failed to clear stored session", zap.Error(err))
	}
	if prev != nil {
		m.log.Info("logged out", zap.String("email", prev.User.Email))
		m.notes.Info("Logged out")
		m.broadcast(Event{Kind: EventLogout, Session: *prev})
	}
}

func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	if err := m.auth.ResetPassword(ctx, strings.TrimSpace(email)); err != nil {
		m.log.Warn("password reset failed", zap.Error(err))
		m.notes.Error(err.Error())
		return fmt.Errorf("reset password: %w", err)
	}
	m.notes.Success("Password reset email sent")
	return nil
}

func (m *Manager) VerifyReset(ctx context.Context, resetToken, newPassword string) error {
	if err := m.auth.VerifyReset(ctx, resetToken, newPassword); err != nil {
		m.log.Warn("password reset verification failed", zap.Error(err))
		m.notes.Error(err.Error())
		return fmt.Errorf("verify reset: %w", err)
	}
	m.notes.Success("Password has been reset")
	return nil
}

// UpdateAccount re-verifies the current password before changing email or password.
func (m *Manager) UpdateAccount(ctx context.Context, currentPassword, newEmail, newPassword string) (string, error) {
	cur, ok := m.Current()
	if !ok {
		return "", ErrAuthRequired
	}

	newEmail = strings.TrimSpace(newEmail)
	emailChanged := newEmail != "" && !strings.EqualFold(newEmail, cur.User.Email)
	if !emailChanged && newPassword == "" {
		m.notes.Info("No changes to save.")
		return "", ErrNoChanges
	}

	if _, err := m.auth.Login(ctx, cur.User.Email, currentPassword); err != nil {
		m.log.Warn("account update re-authentication failed", zap.Error(err))
		m.notes.Error(ErrWrongPassword.Error())
		return "", ErrWrongPassword
	}

	upd := models.AccountUpdate{CurrentEmail: cur.User.Email, NewPassword: newPassword}
	if emailChanged {
		upd.Email = newEmail
	}
	msg, err := m.auth.UpdateAccount(ctx, cur.Token, upd)
	if err != nil {
		m.log.Warn("account update failed", zap.Error(err))
		m.notes.Error(err.Error())
		return "", fmt.Errorf("update account: %w", err)
	}

	if emailChanged {
		m.mu.Lock()
		if m.session != nil && m.session.Token == cur.Token {
			m.session.User.Email = newEmail
			cur = *m.session
		}
		m.mu.Unlock()
		m.persist(cur)
		m.broadcast(Event{Kind: EventUpdated, Session: cur})
	}
	m.notes.Success(msg)
	return msg, nil
}

func (m *Manager) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return models.Session{}, false
	}
	return *m.session, true
}

func (m *Manager) Token() (string, bool) {
	s, ok := m.Current()
	return s.Token, ok
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.pending > 0:
		return StateAuthenticating
	case m.session != nil:
		return StateAuthenticated
	}
	return StateAnonymous
}

// Subscribe delivers session events until the returned cancel func is called.
// Slow subscribers miss events rather than block the manager.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) broadcast(ev Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (m *Manager) persist(s models.Session) {
	if err := m.store.Set(storage.KeySession, s); err != nil {
		m.log.Warn("failed to persist session", zap.Error(err))
	}
}

func (m *Manager) poke() {
	select {
	case m.recheck <- struct{}{}:
	default:
	}
}
