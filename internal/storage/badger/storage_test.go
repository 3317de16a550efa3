package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/models"
)

func testDB(t *testing.T) *BadgerDB {
	t.Helper()

	config := &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "studeo-test"),
	}
	db, err := NewBadgerDB(common.GetLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMaterialStorageRoundTrip(t *testing.T) {
	db := testDB(t)
	storage := NewMaterialStorage(db, common.GetLogger())
	ctx := context.Background()

	material := &models.Material{
		ID:          "mat_roundtrip",
		UserID:      "usr_1",
		SourceType:  models.SourceTypeText,
		Title:       "Photosynthesis Notes",
		ContentText: "Plants convert light energy into chemical energy.",
		Fingerprint: "abc123",
		WordCount:   8,
		Topics:      []string{"Biology"},
	}
	require.NoError(t, storage.StoreMaterial(ctx, material))

	got, err := storage.GetMaterial(ctx, "mat_roundtrip")
	require.NoError(t, err)
	assert.Equal(t, material.Title, got.Title)
	assert.Equal(t, material.Topics, got.Topics)
	assert.False(t, got.CreatedAt.IsZero())

	byPrint, err := storage.FindByFingerprint(ctx, "usr_1", "abc123")
	require.NoError(t, err)
	require.NotNil(t, byPrint)
	assert.Equal(t, "mat_roundtrip", byPrint.ID)

	// Different user must not match the fingerprint
	other, err := storage.FindByFingerprint(ctx, "usr_2", "abc123")
	require.NoError(t, err)
	assert.Nil(t, other)

	count, err := storage.CountMaterials(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, storage.DeleteMaterial(ctx, "mat_roundtrip"))
	_, err = storage.GetMaterial(ctx, "mat_roundtrip")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestQuestionStorageByMaterial(t *testing.T) {
	db := testDB(t)
	storage := NewQuestionStorage(db, common.GetLogger())
	ctx := context.Background()

	questions := []*models.Question{
		{
			ID:            "q_1",
			MaterialID:    "mat_1",
			Type:          models.QuestionTypeMultipleChoice,
			Question:      "What pigment absorbs light?",
			Options:       []string{"Chlorophyll", "Keratin", "Hemoglobin", "Melanin"},
			CorrectIndex:  0,
			CorrectAnswer: "Chlorophyll",
		},
		{
			ID:            "q_2",
			MaterialID:    "mat_2",
			Type:          models.QuestionTypeShortAnswer,
			Question:      "Name the energy currency of the cell.",
			CorrectAnswer: "ATP",
		},
	}
	require.NoError(t, storage.StoreQuestions(ctx, questions))

	forMaterial, err := storage.GetQuestionsByMaterial(ctx, "mat_1")
	require.NoError(t, err)
	require.Len(t, forMaterial, 1)
	assert.Equal(t, "q_1", forMaterial[0].ID)
	assert.Equal(t, []string{"Chlorophyll", "Keratin", "Hemoglobin", "Melanin"}, forMaterial[0].Options)
}

func TestSessionStorageExpiredCleanup(t *testing.T) {
	db := testDB(t)
	storage := NewSessionStorage(db, common.GetLogger())
	ctx := context.Background()

	now := time.Now()
	sessions := []*models.StudySession{
		{ID: "ses_live", UserID: "usr_1", Type: models.SessionTypeQuiz, ExpiresAt: now.Add(time.Hour)},
		{ID: "ses_old", UserID: "usr_1", Type: models.SessionTypeQuiz, ExpiresAt: now.Add(-time.Hour)},
		{ID: "ses_older", UserID: "usr_2", Type: models.SessionTypeFlashcards, ExpiresAt: now.Add(-2 * time.Hour)},
	}
	for _, session := range sessions {
		require.NoError(t, storage.StoreSession(ctx, session))
	}

	deleted, err := storage.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = storage.GetSession(ctx, "ses_old")
	assert.True(t, errors.Is(err, ErrNotFound))

	live, err := storage.GetSession(ctx, "ses_live")
	require.NoError(t, err)
	assert.Equal(t, "ses_live", live.ID)
}

func TestUserStorageLookupByExternalID(t *testing.T) {
	db := testDB(t)
	storage := NewUserStorage(db, common.GetLogger())
	ctx := context.Background()

	user := &models.UserProfile{
		ID:                  "usr_abc",
		ExternalID:          "discord:12345",
		PreferredDifficulty: models.DifficultyMedium,
	}
	require.NoError(t, storage.StoreUser(ctx, user))

	got, err := storage.GetUserByExternalID(ctx, "discord:12345")
	require.NoError(t, err)
	assert.Equal(t, "usr_abc", got.ID)

	_, err = storage.GetUserByExternalID(ctx, "discord:99999")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFeedbackStorageAppendAndQuery(t *testing.T) {
	db := testDB(t)
	storage := NewFeedbackStorage(db, common.GetLogger())
	ctx := context.Background()

	helpful := true
	records := []*models.FeedbackRecord{
		{ID: "fb_1", QuestionID: "q_1", UserID: "usr_1", IsCorrect: true, IsHelpful: &helpful},
		{ID: "fb_2", QuestionID: "q_1", UserID: "usr_2", IsCorrect: false},
		{ID: "fb_3", QuestionID: "q_2", UserID: "usr_1", IsCorrect: true},
	}
	for _, record := range records {
		require.NoError(t, storage.StoreFeedback(ctx, record))
	}

	forQuestion, err := storage.GetFeedbackByQuestion(ctx, "q_1")
	require.NoError(t, err)
	assert.Len(t, forQuestion, 2)

	count, err := storage.CountFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
