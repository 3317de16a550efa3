package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/models"
)

type fakeAttempts struct {
	items []models.QuizAttempt
}

func (f *fakeAttempts) StoreAttempt(ctx context.Context, a *models.QuizAttempt) error {
	f.items = append(f.items, *a)
	return nil
}
func (f *fakeAttempts) GetAttemptsByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	var out []models.QuizAttempt
	for _, a := range f.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAttempts) GetAttemptsBySession(ctx context.Context, sessionID string) ([]models.QuizAttempt, error) {
	return nil, nil
}

func attempt(userID, topic string, correct bool, daysAgo int) models.QuizAttempt {
	return models.QuizAttempt{
		UserID:    userID,
		Topic:     topic,
		IsCorrect: correct,
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestUserReportAggregates(t *testing.T) {
	store := &fakeAttempts{items: []models.QuizAttempt{
		attempt("usr_1", "cells", true, 1),
		attempt("usr_1", "cells", true, 1),
		attempt("usr_1", "cells", false, 0),
		attempt("usr_1", "energy", false, 0),
		attempt("usr_1", "energy", false, 0),
		attempt("usr_2", "cells", true, 0), // other user, excluded
	}}
	svc := NewService(store, common.GetLogger())

	report, err := svc.UserReport(context.Background(), "usr_1")
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalAttempts)
	assert.Equal(t, 2, report.TotalCorrect)
	assert.InDelta(t, 0.4, report.OverallAccuracy, 1e-9)

	require.Len(t, report.ByTopic, 2)
	// Sorted worst first: energy 0/2, then cells 2/3
	assert.Equal(t, "energy", report.ByTopic[0].Topic)
	assert.InDelta(t, 0.0, report.ByTopic[0].Accuracy, 1e-9)
	assert.Equal(t, "cells", report.ByTopic[1].Topic)
	assert.InDelta(t, 2.0/3.0, report.ByTopic[1].Accuracy, 1e-9)

	assert.Equal(t, []string{"energy"}, report.WeakestTopics)

	require.Len(t, report.Daily, 2)
	assert.True(t, report.Daily[0].Date < report.Daily[1].Date)
}

func TestUserReportEmpty(t *testing.T) {
	svc := NewService(&fakeAttempts{}, common.GetLogger())
	report, err := svc.UserReport(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalAttempts)
	assert.Equal(t, 0.0, report.OverallAccuracy)
	assert.Empty(t, report.WeakestTopics)
}
