package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/tlskins/nft-tracker-app/internal/config"
	"github.com/tlskins/nft-tracker-app/internal/delivery/telegram"
	"github.com/tlskins/nft-tracker-app/internal/domain"
	"github.com/tlskins/nft-tracker-app/internal/infra/db"
	"github.com/tlskins/nft-tracker-app/internal/infra/degen"
	"github.com/tlskins/nft-tracker-app/internal/infra/log"
	"github.com/tlskins/nft-tracker-app/internal/usecase"
)

type App struct {
	cfg       config.Config
	portfolio *usecase.PortfolioUsecase
	trackers  *usecase.TrackerUsecase
	watcher   *usecase.AlertWatcher
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client := degen.NewClient(cfg.DegenAPIBaseURL, cfg.SessionWallet, cfg.DegenAPITimeout, cfg.SyncSoftTimeout, logger)
	wsFactory := degen.NewWSFactory(cfg.DegenWSURL, cfg.WSReadTimeout, logger)

	var snapshots domain.SnapshotRepository
	var cleanup func() error
	if cfg.SnapshotsEnabled() {
		dbConn, err := db.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		snapshots = db.NewSnapshotRepository(dbConn)
		cleanup = func() error {
			sqlDB, err := dbConn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	}

	portfolioUC := usecase.NewPortfolioUsecase(client, snapshots, cfg.StalenessCutoff, logger)
	trackerUC := usecase.NewTrackerUsecase(portfolioUC, client, logger)

	var notifier usecase.Notifier = logNotifier{logger: logger}
	if cfg.TelegramEnabled() {
		api, err := telegram.NewAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, err
		}
		notifier = telegram.NewNotifier(api, cfg.TelegramChatID, logger)
	}
	watcher := usecase.NewAlertWatcher(portfolioUC, wsFactory, notifier, logger)

	return &App{
		cfg:       cfg,
		portfolio: portfolioUC,
		trackers:  trackerUC,
		watcher:   watcher,
		logger:    logger,
		cleanupFn: cleanup,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("tracker service starting")

	if err := a.portfolio.LoadWallet(ctx); err != nil {
		return err
	}
	if err := a.portfolio.RefreshPredictions(ctx); err != nil {
		a.logger.Warn("initial prediction refresh incomplete", zap.Error(err))
	}

	go a.portfolio.RunPeriodicRefresh(ctx, a.cfg.RefreshInterval)

	a.logger.Info("tracker service started")
	a.watcher.Run(ctx)
	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("tracker service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

type logNotifier struct {
	logger *zap.Logger
}

func (n logNotifier) Notify(text string) error {
	n.logger.Info("alert triggered", zap.String("text", text))
	return nil
}
