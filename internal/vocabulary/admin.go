package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrInvalidTransition = errors.New("request is no longer pending")

func (s *Store) AdminOverview(ctx context.Context) (models.AdminOverview, error) {
	tok, err := s.token()
	if err != nil {
		return models.AdminOverview{}, err
	}
	if err := s.begin(opOverview); err != nil {
		return models.AdminOverview{}, err
	}
	defer s.end(opOverview)

	ov, err := s.backend.AdminOverview(ctx, tok)
	if err != nil {
		s.log.Error("failed to fetch admin overview", zap.Error(err))
		s.notes.Error(err.Error())
		s.mu.Lock()
		s.overview = nil
		s.mu.Unlock()
		return models.AdminOverview{}, fmt.Errorf("admin overview: %w", err)
	}

	s.mu.Lock()
	s.overview = &ov
	s.mu.Unlock()
	return ov, nil
}

// LastOverview is the most recent successful overview.
func (s *Store) LastOverview() (models.AdminOverview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.overview == nil {
		return models.AdminOverview{}, false
	}
	return *s.overview, true
}

func (s *Store) PendingRequests(ctx context.Context) ([]models.WordRequest, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	if err := s.begin(opQueue); err != nil {
		return nil, err
	}
	defer s.end(opQueue)

	reqs, err := s.backend.ListWordRequests(ctx, tok, models.RequestPending)
	if err != nil {
		s.log.Error("failed to fetch word requests", zap.Error(err))
		s.notes.Error(err.Error())
		return nil, fmt.Errorf("list word requests: %w", err)
	}
	reqs = lo.Filter(reqs, func(r models.WordRequest, _ int) bool { return r.Status == models.RequestPending })

	s.mu.Lock()
	s.requests = reqs
	s.mu.Unlock()
	return append([]models.WordRequest(nil), reqs...), nil
}

// ApproveRequest adds the requested pair as a user-request word, with the
// optional example, and marks the request approved.
func (s *Store) ApproveRequest(ctx context.Context, id string, example *models.Example) (models.WordPair, error) {
	tok, err := s.token()
	if err != nil {
		return models.WordPair{}, err
	}
	if err := s.begin(opReview); err != nil {
		return models.WordPair{}, err
	}
	defer s.end(opReview)

	req, err := s.pendingRequest(ctx, tok, id)
	if err != nil {
		return models.WordPair{}, err
	}

	w := models.WordPair{
		Bangla: req.Bangla,
		Korean: req.Korean,
		Source: models.SourceUserRequest,
	}
	if example != nil && (strings.TrimSpace(example.Bangla) != "" || strings.TrimSpace(example.Korean) != "") {
		w.Examples = []models.Example{*example}
	}

	created, err := s.backend.CreateWordPair(ctx, tok, w)
	if err != nil {
		s.log.Error("failed to add approved word", zap.String("request", id), zap.Error(err))
		s.notes.Error(err.Error())
		return models.WordPair{}, fmt.Errorf("approve request: %w", err)
	}
	if err := s.backend.SetRequestStatus(ctx, tok, id, models.RequestApproved); err != nil {
		s.log.Error("failed to mark request approved", zap.String("request", id), zap.Error(err))
		s.notes.Error(err.Error())
		return created, fmt.Errorf("approve request: %w", err)
	}

	s.dropRequest(id)
	s.notes.Success("Request approved and word added")

	s.mu.RLock()
	page, search := s.page, s.search
	s.mu.RUnlock()
	s.load(ctx, page, search)
	return created, nil
}

func (s *Store) RejectRequest(ctx context.Context, id string) error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	if err := s.begin(opReview); err != nil {
		return err
	}
	defer s.end(opReview)

	if _, err := s.pendingRequest(ctx, tok, id); err != nil {
		return err
	}
	if err := s.backend.SetRequestStatus(ctx, tok, id, models.RequestRejected); err != nil {
		s.log.Error("failed to reject request", zap.String("request", id), zap.Error(err))
		s.notes.Error(err.Error())
		return fmt.Errorf("reject request: %w", err)
	}

	s.dropRequest(id)
	s.notes.Success("Request rejected")
	return nil
}

// pendingRequest finds id in the cached queue, reloading it once on a miss.
func (s *Store) pendingRequest(ctx context.Context, tok, id string) (models.WordRequest, error) {
	s.mu.RLock()
	req, ok := lo.Find(s.requests, func(r models.WordRequest) bool { return r.ID == id })
	s.mu.RUnlock()
	if ok {
		return req, nil
	}

	reqs, err := s.backend.ListWordRequests(ctx, tok, models.RequestPending)
	if err != nil {
		s.notes.Error(err.Error())
		return models.WordRequest{}, fmt.Errorf("list word requests: %w", err)
	}
	s.mu.Lock()
	s.requests = reqs
	s.mu.Unlock()

	req, ok = lo.Find(reqs, func(r models.WordRequest) bool { return r.ID == id })
	if !ok {
		return models.WordRequest{}, fmt.Errorf("request %s: %w", id, backend.ErrNotFound)
	}
	if !req.CanTransition(models.RequestApproved) {
		return models.WordRequest{}, ErrInvalidTransition
	}
	return req, nil
}

func (s *Store) dropRequest(id string) {
	s.mu.Lock()
	s.requests = lo.Reject(s.requests, func(r models.WordRequest, _ int) bool { return r.ID == id })
	s.mu.Unlock()
}

// Request looks id up in the last loaded queue.
func (s *Store) Request(id string) (models.WordRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.requests, func(r models.WordRequest) bool { return r.ID == id })
}
