package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// SessionStorage implements interfaces.SessionStorage for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SessionStorage {
	return &SessionStorage{db: db, logger: logger}
}

func (s *SessionStorage) StoreSession(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		return fmt.Errorf("session ID is required")
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) GetSession(ctx context.Context, id string) (*models.StudySession, error) {
	var session models.StudySession
	err := s.db.Store().Get(id, &session)
	if err == badgerhold.ErrNotFound {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *SessionStorage) GetSessionsByUser(ctx context.Context, userID string) ([]*models.StudySession, error) {
	var sessions []models.StudySession
	if err := s.db.Store().Find(&sessions, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}
	return toPointers(sessions), nil
}

func (s *SessionStorage) DeleteSession(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.StudySession{})
	if err == badgerhold.ErrNotFound {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) DeleteExpiredSessions(ctx context.Context, before time.Time) (int, error) {
	var expired []models.StudySession
	if err := s.db.Store().Find(&expired, badgerhold.Where("ExpiresAt").Lt(before)); err != nil {
		return 0, fmt.Errorf("failed to find expired sessions: %w", err)
	}

	deleted := 0
	for _, session := range expired {
		if err := s.db.Store().Delete(session.ID, &models.StudySession{}); err != nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to delete expired session")
			continue
		}
		deleted++
	}
	return deleted, nil
}
