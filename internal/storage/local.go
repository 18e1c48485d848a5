// Package storage keeps small JSON values on disk under fixed keys, the way a
// browser keeps them in localStorage.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Keys used by the app.
const (
	KeySession        = "auth_session"
	KeySubmitterEmail = "submitter_email"
	KeyHistory        = "vocabulary_history"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key/value contract the session, store and history use.
type Store interface {
	Get(key string, dst any) error
	Set(key string, value any) error
	Delete(key string) error
}

// File persists every key in one JSON object on disk.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
	log  *zap.Logger
}

func OpenFile(path string, log *zap.Logger) (*File, error) {
	f := &File{path: path, data: map[string]json.RawMessage{}, log: log}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}

	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		log.Warn("discarding unreadable local storage", zap.String("path", path), zap.Error(err))
		f.data = map[string]json.RawMessage{}
	}
	return f, nil
}

func (f *File) Get(key string, dst any) error {
	f.mu.Lock()
	raw, ok := f.data[key]
	f.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		f.log.Warn("dropping corrupt value", zap.String("key", key), zap.Error(err))
		_ = f.Delete(key)
		return ErrNotFound
	}
	return nil
}

func (f *File) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = raw
	return f.flush()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}

// flush writes through a temp file so a crash never leaves half a document.
func (f *File) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: mkdir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

// Memory is a Store that never touches disk.
type Memory struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{data: map[string]json.RawMessage{}}
}

func (m *Memory) Get(key string, dst any) error {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dst)
}

func (m *Memory) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
