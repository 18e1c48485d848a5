// Package notify collects the short user-facing notices the view shows as toasts.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Seq     uint64    `json:"seq"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is what every component publishes to.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

const feedSize = 100

// Feed keeps the most recent notices and mirrors each one to the logger.
type Feed struct {
	mu      sync.Mutex
	seq     uint64
	notices []Notice
	log     *zap.Logger
}

func NewFeed(log *zap.Logger) *Feed {
	return &Feed{log: log}
}

func (f *Feed) Info(msg string)    { f.push(LevelInfo, msg) }
func (f *Feed) Success(msg string) { f.push(LevelSuccess, msg) }
func (f *Feed) Error(msg string)   { f.push(LevelError, msg) }

func (f *Feed) push(level Level, msg string) {
	f.mu.Lock()
	f.seq++
	f.notices = append(f.notices, Notice{Seq: f.seq, Level: level, Message: msg, At: time.Now()})
	if len(f.notices) > feedSize {
		f.notices = f.notices[len(f.notices)-feedSize:]
	}
	f.mu.Unlock()

	f.log.Debug("notice", zap.String("level", string(level)), zap.String("message", msg))
}

// Since returns notices newer than seq, oldest first.
func (f *Feed) Since(seq uint64) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notice, 0, len(f.notices))
	for _, n := range f.notices {
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Info(string)    {}
func (Discard) Success(string) {}
func (Discard) Error(string)   {}
