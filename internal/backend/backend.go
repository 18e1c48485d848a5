// Package backend is the contract the client core consumes. Adapters live in
// the rest and docstore subpackages and are interchangeable.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/developia-II/langobridge/internal/models"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrMalformed    = errors.New("malformed response")
)

// StatusError is a non-success reply with the message the backend gave.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return e.Message
}

type WordPairs interface {
	ListWordPairs(ctx context.Context, q models.ListQuery) (models.WordPage, error)
	CreateWordPair(ctx context.Context, token string, w models.WordPair) (models.WordPair, error)
	UpdateWordPair(ctx context.Context, token string, w models.WordPair) (models.WordPair, error)
	DeleteWordPair(ctx context.Context, token, id string) error
}

type WordRequests interface {
	CreateWordRequest(ctx context.Context, in models.WordRequestInput) (models.WordRequest, error)
	ListWordRequests(ctx context.Context, token string, status models.RequestStatus) ([]models.WordRequest, error)
	// SetRequestStatus moves a pending request to approved or rejected.
	SetRequestStatus(ctx context.Context, token, id string, status models.RequestStatus) error
}

type Admin interface {
	AdminOverview(ctx context.Context, token string) (models.AdminOverview, error)
}

type Auth interface {
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)
	ResetPassword(ctx context.Context, email string) error
	VerifyReset(ctx context.Context, resetToken, newPassword string) error
	UpdateAccount(ctx context.Context, token string, upd models.AccountUpdate) (string, error)
}

type Backend interface {
	WordPairs
	WordRequests
	Admin
	Auth
}

// Unwrap lets callers test a StatusError against the sentinels above.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	}
	return nil
}
