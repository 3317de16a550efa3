// Package sessions manages explicit study session records with expiry,
// replacing implicit interactive-component state.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// ErrSessionExpired indicates the session passed its expiry before the operation
var ErrSessionExpired = errors.New("study session has expired")

// Service manages interactive study sessions
type Service struct {
	sessions interfaces.SessionStorage
	attempts interfaces.AttemptStorage
	users    interfaces.UserStorage // optional, nil disables profile counters
	ttl      time.Duration
	logger   arbor.ILogger
}

// NewService creates a session service
func NewService(sessions interfaces.SessionStorage, attempts interfaces.AttemptStorage, users interfaces.UserStorage, ttl time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		sessions: sessions,
		attempts: attempts,
		users:    users,
		ttl:      ttl,
		logger:   logger,
	}
}

// StartSession creates a new session with a fresh expiry window
func (s *Service) StartSession(ctx context.Context, userID, materialID, sessionType string) (*models.StudySession, error) {
	if sessionType != models.SessionTypeQuiz && sessionType != models.SessionTypeFlashcards {
		return nil, fmt.Errorf("unknown session type: %s", sessionType)
	}

	now := time.Now()
	session := &models.StudySession{
		ID:         common.NewSessionID(),
		UserID:     userID,
		MaterialID: materialID,
		Type:       sessionType,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.sessions.StoreSession(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	s.logger.Debug().Str("session_id", session.ID).Str("type", sessionType).Msg("Started session")
	return session, nil
}

// GetSession loads a session, rejecting expired ones
func (s *Service) GetSession(ctx context.Context, id string) (*models.StudySession, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// RecordAttempt persists a quiz attempt and advances the session counters
func (s *Service) RecordAttempt(ctx context.Context, sessionID string, attempt *models.QuizAttempt) (*models.StudySession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if attempt.ID == "" {
		attempt.ID = common.NewAttemptID()
	}
	attempt.SessionID = session.ID
	attempt.UserID = session.UserID
	attempt.MaterialID = session.MaterialID
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = now
	}
	if err := s.attempts.StoreAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("storing attempt: %w", err)
	}

	session.CurrentIndex++
	session.TotalCount++
	if attempt.IsCorrect {
		session.CorrectCount++
	}
	session.Touch(now, s.ttl)

	if err := s.sessions.StoreSession(ctx, session); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.bumpProfileCounters(ctx, session.UserID, attempt.IsCorrect)
	return session, nil
}

// bumpProfileCounters advances the user's lifetime counters. Failures are
// logged, not surfaced: the attempt itself is already persisted.
func (s *Service) bumpProfileCounters(ctx context.Context, userID string, correct bool) {
	if s.users == nil {
		return
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return
	}
	user.QuestionsAnswered++
	if correct {
		user.CorrectAnswers++
	}
	if err := s.users.StoreUser(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to update profile counters")
	}
}

// EndSession removes a session
func (s *Service) EndSession(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}

// CleanupExpired deletes every session whose expiry has passed
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
	}
	return removed, nil
}
