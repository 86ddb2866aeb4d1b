package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/finlens/internal/clients/dart"
	"github.com/bobmcallan/finlens/internal/clients/gemini"
	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/services/company"
	"github.com/bobmcallan/finlens/internal/services/financial"
	"github.com/bobmcallan/finlens/internal/services/narrative"
	"github.com/bobmcallan/finlens/internal/storage"
)

// App holds all initialized services, clients and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	DARTClient       interfaces.DARTClient
	GeminiClient     interfaces.GeminiClient
	FinancialService interfaces.FinancialService
	CompanyService   interfaces.CompanyService
	NarrativeService interfaces.NarrativeService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, FINLENS_CONFIG, the binary
// directory, then the development fallback.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("FINLENS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "finlens.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finlens.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initializes clients, storage and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	a := NewWithConfig(config, logger)
	a.StartupTime = startupStart

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// NewWithConfig wires the app from an already loaded config. Missing API
// keys and an unreachable store degrade features rather than failing.
func NewWithConfig(config *common.Config, logger *common.Logger) *App {
	ctx := context.Background()

	for _, key := range config.ValidateRequired() {
		logger.Warn().Str("key", key).Msg("Required configuration missing")
	}

	dartClient := dart.NewClient(config.Clients.DART.APIKey,
		dart.WithBaseURL(config.Clients.DART.BaseURL),
		dart.WithLogger(logger),
		dart.WithRateLimit(config.Clients.DART.RateLimit),
		dart.WithTimeout(config.Clients.DART.GetTimeout()),
	)

	var geminiClient interfaces.GeminiClient
	if config.Clients.Gemini.APIKey != "" {
		gc, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			geminiClient = gc
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - AI analysis will return fallback text")
	}

	orchestrator := financial.NewOrchestrator(dartClient,
		config.Clients.DART.GetFloorYear(),
		config.Clients.DART.GetTimeout(),
		logger,
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		DARTClient:       dartClient,
		GeminiClient:     geminiClient,
		FinancialService: financial.NewService(orchestrator, logger),
		NarrativeService: narrative.NewService(geminiClient, logger),
		StartupTime:      time.Now(),
	}

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Warn().Err(err).Msg("Storage unavailable - company search disabled")
	} else {
		a.Storage = storageManager
		a.CompanyService = company.NewService(storageManager.CompanyStore(), logger)
	}

	return a
}

// Close releases storage.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
	a.Logger.Info().Msg("App closed")
}
