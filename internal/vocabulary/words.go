package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/developia-II/langobridge/internal/i18n"
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/storage"
	"github.com/developia-II/langobridge/utils"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation failed")

// ValidationError carries the message key so callers can localize it.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string { return i18n.T("", e.Key) }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Add persists w and prepends the canonical record, then re-fetches.
func (s *Store) Add(ctx context.Context, w models.WordPair) (models.WordPair, error) {
	tok, err := s.token()
	if err != nil {
		return models.WordPair{}, err
	}
	w.Bangla, w.Korean = strings.TrimSpace(w.Bangla), strings.TrimSpace(w.Korean)
	if err := utils.Validate.Struct(w); err != nil {
		return models.WordPair{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.begin(opAdd); err != nil {
		return models.WordPair{}, err
	}
	defer s.end(opAdd)

	created, err := s.backend.CreateWordPair(ctx, tok, w)
	if err != nil {
		s.log.Error("failed to add word", zap.String("bangla", w.Bangla), zap.String("korean", w.Korean), zap.Error(err))
		s.notes.Error(err.Error())
		return models.WordPair{}, fmt.Errorf("add word: %w", err)
	}
	if created.Status == "" {
		created.Status = models.StatusConfirmed
	}

	s.mu.Lock()
	s.words = append([]models.WordPair{created}, s.words...)
	page, search := s.page, s.search
	s.mu.Unlock()
	s.publish()

	s.notes.Success("Word added successfully")
	s.load(ctx, page, search)
	return created, nil
}

// AddLocalFallback keeps an unpersisted copy after a failed Add.
func (s *Store) AddLocalFallback(w models.WordPair) models.WordPair {
	w.ID = "local-" + uuid.NewString()
	w.Source = models.SourceLocal
	w.Status = models.StatusPending

	s.mu.Lock()
	s.words = append(s.words, w)
	s.mu.Unlock()
	s.publish()

	s.log.Info("kept local-only word", zap.String("id", w.ID))
	return w
}

func (s *Store) Update(ctx context.Context, w models.WordPair) (models.WordPair, error) {
	tok, err := s.token()
	if err != nil {
		return models.WordPair{}, err
	}
	if w.ID == "" {
		return models.WordPair{}, fmt.Errorf("%w: missing id", ErrValidation)
	}
	if err := utils.Validate.Struct(w); err != nil {
		return models.WordPair{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.begin(opUpdate); err != nil {
		return models.WordPair{}, err
	}
	defer s.end(opUpdate)

	updated, err := s.backend.UpdateWordPair(ctx, tok, w)
	if err != nil {
		s.log.Error("failed to update word", zap.String("id", w.ID), zap.Error(err))
		s.notes.Error(err.Error())
		return models.WordPair{}, fmt.Errorf("update word: %w", err)
	}

	s.mu.Lock()
	s.words = lo.Map(s.words, func(cur models.WordPair, _ int) models.WordPair {
		if cur.ID == w.ID {
			return updated
		}
		return cur
	})
	page, search := s.page, s.search
	s.mu.Unlock()
	s.publish()

	s.notes.Success("Word updated successfully")
	s.load(ctx, page, search)
	return updated, nil
}

// Remove drops the entry locally only after the backend confirms.
func (s *Store) Remove(ctx context.Context, id string) error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	if err := s.begin(opRemove); err != nil {
		return err
	}
	defer s.end(opRemove)

	if err := s.backend.DeleteWordPair(ctx, tok, id); err != nil {
		s.log.Error("failed to delete word", zap.String("id", id), zap.Error(err))
		s.notes.Error(err.Error())
		return fmt.Errorf("delete word: %w", err)
	}

	s.mu.Lock()
	s.words = lo.Reject(s.words, func(w models.WordPair, _ int) bool { return w.ID == id })
	page, search := s.page, s.search
	s.mu.Unlock()
	s.publish()

	s.notes.Success("Word deleted successfully")
	s.load(ctx, page, search)
	return nil
}

// RequestWord submits a word pair suggestion without a session and remembers
// the submitter's email.
func (s *Store) RequestWord(ctx context.Context, bangla, korean, email string) (models.WordRequest, error) {
	in := models.WordRequestInput{
		Bangla:      strings.TrimSpace(bangla),
		Korean:      strings.TrimSpace(korean),
		SubmittedBy: strings.TrimSpace(email),
	}
	if err := validateRequest(in); err != nil {
		s.notes.Error(i18n.T(s.SelectedLanguage(), err.Key))
		return models.WordRequest{}, err
	}
	if err := s.begin(opRequest); err != nil {
		return models.WordRequest{}, err
	}
	defer s.end(opRequest)

	req, err := s.backend.CreateWordRequest(ctx, in)
	if err != nil {
		s.log.Error("failed to submit word request", zap.String("submittedBy", in.SubmittedBy), zap.Error(err))
		s.notes.Error(err.Error())
		return models.WordRequest{}, fmt.Errorf("request word: %w", err)
	}

	if err := s.store.Set(storage.KeySubmitterEmail, in.SubmittedBy); err != nil {
		s.log.Warn("failed to remember submitter email", zap.Error(err))
	}
	s.notes.Success(i18n.T(s.SelectedLanguage(), i18n.KeyRequestSubmitted))
	return req, nil
}

// SubmitterEmail is the address used for the last successful request, if any.
func (s *Store) SubmitterEmail() string {
	var email string
	if err := s.store.Get(storage.KeySubmitterEmail, &email); err != nil {
		return ""
	}
	return email
}

// validateRequest checks empty fields first, then email, Bangla and Hangul.
func validateRequest(in models.WordRequestInput) *ValidationError {
	switch {
	case in.Bangla == "" || in.Korean == "" || in.SubmittedBy == "":
		return &ValidationError{Key: i18n.KeyPleaseFillFields}
	case utils.Validate.Var(in.SubmittedBy, "submitter") != nil:
		return &ValidationError{Key: i18n.KeyInvalidEmail}
	case utils.Validate.Var(in.Bangla, "bangla") != nil:
		return &ValidationError{Key: i18n.KeyInvalidBangla}
	case utils.Validate.Var(in.Korean, "hangul") != nil:
		return &ValidationError{Key: i18n.KeyInvalidKorean}
	}
	return nil
}
