// Package analytics computes study aggregates from quiz attempts. Numbers
// only; rendering is left to consumers.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

const weakTopicLimit = 3

// minAttemptsForWeakness is the floor below which a topic's accuracy is
// too noisy to call it weak
const minAttemptsForWeakness = 2

// Service computes per-user study reports
type Service struct {
	attempts interfaces.AttemptStorage
	logger   arbor.ILogger
}

// NewService creates an analytics service
func NewService(attempts interfaces.AttemptStorage, logger arbor.ILogger) *Service {
	return &Service{attempts: attempts, logger: logger}
}

// UserReport aggregates all of a user's attempts into topic, daily, and
// overall accuracy figures
func (s *Service) UserReport(ctx context.Context, userID string) (*interfaces.UserAnalytics, error) {
	attempts, err := s.attempts.GetAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts for %s: %w", userID, err)
	}

	report := &interfaces.UserAnalytics{UserID: userID}

	type bucket struct {
		attempts int
		correct  int
	}
	byTopic := map[string]*bucket{}
	byDay := map[string]*bucket{}

	for _, a := range attempts {
		report.TotalAttempts++
		if a.IsCorrect {
			report.TotalCorrect++
		}

		topic := a.Topic
		if topic == "" {
			topic = "general"
		}
		if byTopic[topic] == nil {
			byTopic[topic] = &bucket{}
		}
		byTopic[topic].attempts++
		if a.IsCorrect {
			byTopic[topic].correct++
		}

		day := a.CreatedAt.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = &bucket{}
		}
		byDay[day].attempts++
		if a.IsCorrect {
			byDay[day].correct++
		}
	}

	if report.TotalAttempts > 0 {
		report.OverallAccuracy = float64(report.TotalCorrect) / float64(report.TotalAttempts)
	}

	for topic, b := range byTopic {
		report.ByTopic = append(report.ByTopic, interfaces.TopicPerformance{
			Topic:    topic,
			Attempts: b.attempts,
			Correct:  b.correct,
			Accuracy: float64(b.correct) / float64(b.attempts),
		})
	}
	// Worst accuracy first; ties broken by attempt volume so well-sampled
	// weaknesses surface ahead of one-off misses
	sort.Slice(report.ByTopic, func(i, j int) bool {
		if report.ByTopic[i].Accuracy != report.ByTopic[j].Accuracy {
			return report.ByTopic[i].Accuracy < report.ByTopic[j].Accuracy
		}
		return report.ByTopic[i].Attempts > report.ByTopic[j].Attempts
	})

	for _, tp := range report.ByTopic {
		if len(report.WeakestTopics) == weakTopicLimit {
			break
		}
		if tp.Attempts >= minAttemptsForWeakness && tp.Accuracy < 0.6 {
			report.WeakestTopics = append(report.WeakestTopics, tp.Topic)
		}
	}

	for day, b := range byDay {
		report.Daily = append(report.Daily, interfaces.DailyProgress{
			Date:     day,
			Attempts: b.attempts,
			Correct:  b.correct,
			Accuracy: float64(b.correct) / float64(b.attempts),
		})
	}
	sort.Slice(report.Daily, func(i, j int) bool {
		return report.Daily[i].Date < report.Daily[j].Date
	})

	return report, nil
}
