// Package scheduler runs cron-driven background maintenance: expired
// session cleanup and the periodic question quality sweep.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
)

// Service owns the cron runner and its registered jobs
type Service struct {
	cron      *cron.Cron
	config    common.SchedulerConfig
	sessions  interfaces.SessionService
	qa        interfaces.QAService
	materials interfaces.MaterialStorage
	logger    arbor.ILogger
}

// NewService creates a scheduler service
func NewService(config common.SchedulerConfig, sessions interfaces.SessionService, qa interfaces.QAService, materials interfaces.MaterialStorage, logger arbor.ILogger) *Service {
	return &Service{
		cron:      cron.New(cron.WithSeconds()),
		config:    config,
		sessions:  sessions,
		qa:        qa,
		materials: materials,
		logger:    logger,
	}
}

// Start registers the maintenance jobs and starts the cron runner
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Scheduler disabled by configuration")
		return nil
	}

	for _, schedule := range []string{s.config.CleanupSchedule, s.config.QualitySchedule} {
		if err := common.ValidateSchedule(schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}
	}

	if _, err := s.cron.AddFunc(s.config.CleanupSchedule, s.runSessionCleanup); err != nil {
		return fmt.Errorf("registering session cleanup job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.config.QualitySchedule, s.runQualitySweep); err != nil {
		return fmt.Errorf("registering quality sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("cleanup_schedule", s.config.CleanupSchedule).
		Str("quality_schedule", s.config.QualitySchedule).
		Msg("Scheduler started")
	return nil
}

// Stop halts the cron runner and waits for running jobs to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) runSessionCleanup() {
	removed, err := s.sessions.CleanupExpired(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Session cleanup failed")
		return
	}
	s.logger.Debug().Int("removed", removed).Msg("Session cleanup finished")
}

// runQualitySweep evaluates every material's questions against the
// configured threshold. Per-material failures are logged and skipped.
func (s *Service) runQualitySweep() {
	ctx := context.Background()
	materials, err := s.materials.GetAllMaterials(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Quality sweep could not list materials")
		return
	}

	for _, material := range materials {
		summary, err := s.qa.EvaluateQuestions(ctx, material.ID, 0)
		if err != nil {
			s.logger.Warn().Err(err).Str("material_id", material.ID).Msg("Quality sweep failed for material")
			continue
		}
		if summary.Removed > 0 || summary.Updated > 0 {
			s.logger.Info().
				Str("material_id", material.ID).
				Int("removed", summary.Removed).
				Int("updated", summary.Updated).
				Msg("Quality sweep acted on material")
		}
	}
}
