package commands

import (
	"context"
	"fmt"
	"time"

	"pipeline/src/clients/yahoo"
	"pipeline/src/config"
	"pipeline/src/database"
	"pipeline/src/repositories"
	"pipeline/src/services"
	"pipeline/src/utils"
	aws_handler "pipeline/src/utils/aws"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app bundles what every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	location *time.Location
}

func loadApp(opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.settingsPath, opts.env)
	if err != nil {
		return nil, fmt.Errorf("error while loading config: %w", err)
	}

	if cfg.HasSecrets() {
		handler, err := aws_handler.NewAWSHandler(cfg.Secrets.Region)
		if err != nil {
			return nil, err
		}
		if err := config.ResolveSecrets(cfg, handler.SecretManager); err != nil {
			return nil, err
		}
	}

	logger, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, err
	}

	location, err := utils.LoadLocation(cfg.Pipeline.Timezone)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, location: location}, nil
}

func (a *app) context(ctx context.Context) context.Context {
	return utils.WithLogger(ctx, a.logger)
}

func (a *app) openDB() (*gorm.DB, error) {
	return database.SetupDB(a.cfg)
}

// services wires the pipeline on top of db.
func (a *app) services(db *gorm.DB) (*services.PipelineService, *services.ValuationService) {
	securityRepo := repositories.NewSecurityRepository(db)
	valuationRepo := repositories.NewValuationRepository(db)

	valuationService := services.NewValuationService(securityRepo, valuationRepo)
	pipeline := services.NewPipelineService(
		a.cfg.Pipeline.CSVPath,
		a.location,
		a.cfg.Pipeline.Currency,
		utils.SystemClock{},
		services.NewPortfolioLoader(),
		services.NewSyncService(securityRepo),
		services.NewEnrichService(yahoo.NewClient(a.cfg, nil)),
		valuationService,
	)
	return pipeline, valuationService
}
