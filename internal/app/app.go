package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/handlers"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/llm"
	"github.com/ternarybob/studeo/internal/services/analytics"
	"github.com/ternarybob/studeo/internal/services/export"
	"github.com/ternarybob/studeo/internal/services/flashcards"
	"github.com/ternarybob/studeo/internal/services/materials"
	"github.com/ternarybob/studeo/internal/services/qa"
	"github.com/ternarybob/studeo/internal/services/scheduler"
	"github.com/ternarybob/studeo/internal/services/sessions"
	"github.com/ternarybob/studeo/internal/services/summarize"
	"github.com/ternarybob/studeo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB               *badger.BadgerDB
	MaterialStorage  interfaces.MaterialStorage
	QuestionStorage  interfaces.QuestionStorage
	FeedbackStorage  interfaces.FeedbackStorage
	ChangelogStorage interfaces.ChangelogStorage
	SessionStorage   interfaces.SessionStorage
	AttemptStorage   interfaces.AttemptStorage
	UserStorage      interfaces.UserStorage
	SummaryStorage   interfaces.SummaryStorage
	FlashcardStorage interfaces.FlashcardStorage

	// Model backend
	Completion interfaces.CompletionService

	// Domain services
	MaterialService  interfaces.MaterialService
	SummarizeService interfaces.SummarizeService
	QAService        interfaces.QAService
	FlashcardService interfaces.FlashcardService
	SessionService   interfaces.SessionService
	AnalyticsService interfaces.AnalyticsService
	ExportService    interfaces.ExportService
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	StatusHandler    *handlers.StatusHandler
	MaterialHandler  *handlers.MaterialHandler
	SummarizeHandler *handlers.SummarizeHandler
	QuestionHandler  *handlers.QuestionHandler
	FlashcardHandler *handlers.FlashcardHandler
	SessionHandler   *handlers.SessionHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	ExportHandler    *handlers.ExportHandler
	UserHandler      *handlers.UserHandler
}

// New wires up storage, services, and handlers from configuration
func New(config *common.Config) (*App, error) {
	logger := common.GetLogger()

	// reset_on_startup wipes the database; never honor it in production
	if config.IsProduction() && config.Storage.Badger.ResetOnStartup {
		logger.Warn().Msg("Ignoring reset_on_startup in production environment")
		config.Storage.Badger.ResetOnStartup = false
	}

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config: config,
		Logger: logger,
		DB:     db,
	}

	// Storage layers
	a.MaterialStorage = badger.NewMaterialStorage(db, logger)
	a.QuestionStorage = badger.NewQuestionStorage(db, logger)
	a.FeedbackStorage = badger.NewFeedbackStorage(db, logger)
	a.ChangelogStorage = badger.NewChangelogStorage(db, logger)
	a.SessionStorage = badger.NewSessionStorage(db, logger)
	a.AttemptStorage = badger.NewAttemptStorage(db, logger)
	a.UserStorage = badger.NewUserStorage(db, logger)
	a.SummaryStorage = badger.NewSummaryStorage(db, logger)
	a.FlashcardStorage = badger.NewFlashcardStorage(db, logger)

	// Model backend
	a.Completion = llm.NewClient(config, logger)

	// Domain services
	a.MaterialService = materials.NewService(a.MaterialStorage, a.Completion, a.UserStorage, config.Ingest, logger)
	a.SummarizeService = summarize.NewService(a.Completion, a.MaterialStorage, a.SummaryStorage, config.Summarize, logger)
	a.QAService = qa.NewService(a.Completion, a.MaterialStorage, a.QuestionStorage, a.FeedbackStorage, a.ChangelogStorage, config.QA, logger)
	a.FlashcardService = flashcards.NewService(a.Completion, a.MaterialStorage, a.FlashcardStorage, logger)
	a.SessionService = sessions.NewService(a.SessionStorage, a.AttemptStorage, a.UserStorage, config.SessionTTL(), logger)
	a.AnalyticsService = analytics.NewService(a.AttemptStorage, logger)
	a.ExportService = export.NewService(a.MaterialStorage, a.SummaryStorage, a.FlashcardStorage, config.Export, logger)
	a.SchedulerService = scheduler.NewService(config.Scheduler, a.SessionService, a.QAService, a.MaterialStorage, logger)

	// HTTP handlers
	a.APIHandler = handlers.NewAPIHandler()
	a.StatusHandler = handlers.NewStatusHandler(a.Completion, a.MaterialStorage, a.QuestionStorage, a.FeedbackStorage, logger)
	a.MaterialHandler = handlers.NewMaterialHandler(a.MaterialService, logger)
	a.SummarizeHandler = handlers.NewSummarizeHandler(a.SummarizeService, logger)
	a.QuestionHandler = handlers.NewQuestionHandler(a.QAService, a.QuestionStorage, logger)
	a.FlashcardHandler = handlers.NewFlashcardHandler(a.FlashcardService, a.FlashcardStorage, logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, logger)
	a.AnalyticsHandler = handlers.NewAnalyticsHandler(a.AnalyticsService, logger)
	a.ExportHandler = handlers.NewExportHandler(a.ExportService, logger)
	a.UserHandler = handlers.NewUserHandler(a.UserStorage, logger)

	return a, nil
}

// Start launches background components
func (a *App) Start() error {
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Close shuts down background components and storage
func (a *App) Close(ctx context.Context) error {
	a.SchedulerService.Stop()

	if err := a.DB.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close database")
		return err
	}

	a.Logger.Info().Msg("Application shut down")
	return nil
}
