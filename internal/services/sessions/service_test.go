package sessions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/models"
)

type fakeSessions struct {
	items map[string]*models.StudySession
}

func (f *fakeSessions) StoreSession(ctx context.Context, s *models.StudySession) error {
	copied := *s
	f.items[s.ID] = &copied
	return nil
}
func (f *fakeSessions) GetSession(ctx context.Context, id string) (*models.StudySession, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	copied := *s
	return &copied, nil
}
func (f *fakeSessions) GetSessionsByUser(ctx context.Context, userID string) ([]*models.StudySession, error) {
	return nil, nil
}
func (f *fakeSessions) DeleteSession(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}
func (f *fakeSessions) DeleteExpiredSessions(ctx context.Context, before time.Time) (int, error) {
	removed := 0
	for id, s := range f.items {
		if s.ExpiresAt.Before(before) {
			delete(f.items, id)
			removed++
		}
	}
	return removed, nil
}

type fakeAttempts struct {
	items []models.QuizAttempt
}

func (f *fakeAttempts) StoreAttempt(ctx context.Context, a *models.QuizAttempt) error {
	f.items = append(f.items, *a)
	return nil
}
func (f *fakeAttempts) GetAttemptsByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	return f.items, nil
}
func (f *fakeAttempts) GetAttemptsBySession(ctx context.Context, sessionID string) ([]models.QuizAttempt, error) {
	return f.items, nil
}

type fakeUsers struct {
	items map[string]*models.UserProfile
}

func (f *fakeUsers) StoreUser(ctx context.Context, u *models.UserProfile) error {
	copied := *u
	f.items[u.ID] = &copied
	return nil
}
func (f *fakeUsers) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	copied := *u
	return &copied, nil
}
func (f *fakeUsers) GetUserByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error) {
	for _, u := range f.items {
		if u.ExternalID == externalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", externalID)
}

func newTestService(ttl time.Duration) (*Service, *fakeSessions, *fakeAttempts) {
	sessions := &fakeSessions{items: map[string]*models.StudySession{}}
	attempts := &fakeAttempts{}
	return NewService(sessions, attempts, nil, ttl, common.GetLogger()), sessions, attempts
}

func TestStartSessionSetsExpiry(t *testing.T) {
	svc, _, _ := newTestService(time.Hour)

	session, err := svc.StartSession(context.Background(), "usr_1", "mat_1", models.SessionTypeQuiz)
	require.NoError(t, err)

	assert.True(t, len(session.ID) > 4 && session.ID[:4] == "ses_")
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
}

func TestStartSessionRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(time.Hour)
	_, err := svc.StartSession(context.Background(), "usr_1", "mat_1", "karaoke")
	assert.Error(t, err)
}

func TestRecordAttemptAdvancesCounters(t *testing.T) {
	svc, _, attempts := newTestService(time.Hour)
	session, err := svc.StartSession(context.Background(), "usr_1", "mat_1", models.SessionTypeQuiz)
	require.NoError(t, err)

	updated, err := svc.RecordAttempt(context.Background(), session.ID, &models.QuizAttempt{
		QuestionID: "q_1", Answer: "B", IsCorrect: true, Topic: "cells",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalCount)
	assert.Equal(t, 1, updated.CorrectCount)
	assert.Equal(t, 1, updated.CurrentIndex)

	updated, err = svc.RecordAttempt(context.Background(), session.ID, &models.QuizAttempt{
		QuestionID: "q_2", Answer: "A", IsCorrect: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalCount)
	assert.Equal(t, 1, updated.CorrectCount)

	require.Len(t, attempts.items, 2)
	assert.Equal(t, session.ID, attempts.items[0].SessionID)
	assert.Equal(t, "usr_1", attempts.items[0].UserID)
	assert.Equal(t, "mat_1", attempts.items[0].MaterialID)
	assert.True(t, len(attempts.items[0].ID) > 4 && attempts.items[0].ID[:4] == "att_")
}

func TestRecordAttemptUpdatesProfileCounters(t *testing.T) {
	sessions := &fakeSessions{items: map[string]*models.StudySession{}}
	attempts := &fakeAttempts{}
	users := &fakeUsers{items: map[string]*models.UserProfile{
		"usr_1": {ID: "usr_1", ExternalID: "discord:1"},
	}}
	svc := NewService(sessions, attempts, users, time.Hour, common.GetLogger())

	session, err := svc.StartSession(context.Background(), "usr_1", "mat_1", models.SessionTypeQuiz)
	require.NoError(t, err)

	_, err = svc.RecordAttempt(context.Background(), session.ID, &models.QuizAttempt{QuestionID: "q_1", IsCorrect: true})
	require.NoError(t, err)
	_, err = svc.RecordAttempt(context.Background(), session.ID, &models.QuizAttempt{QuestionID: "q_2", IsCorrect: false})
	require.NoError(t, err)

	profile := users.items["usr_1"]
	assert.Equal(t, 2, profile.QuestionsAnswered)
	assert.Equal(t, 1, profile.CorrectAnswers)
}

func TestExpiredSessionIsRejected(t *testing.T) {
	svc, store, _ := newTestService(-time.Minute) // already expired on creation
	session, err := svc.StartSession(context.Background(), "usr_1", "mat_1", models.SessionTypeQuiz)
	require.NoError(t, err)

	_, err = svc.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.RecordAttempt(context.Background(), session.ID, &models.QuizAttempt{QuestionID: "q_1"})
	assert.ErrorIs(t, err, ErrSessionExpired)

	removed, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, store.items)
}
