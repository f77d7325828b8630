package app

import (
	"context"
	"fmt"
	"net/http"

	"fitness-league-go/internal/config"
	"fitness-league-go/internal/db"
	leaderboarddomain "fitness-league-go/internal/domain/leaderboard"
	leaguedomain "fitness-league-go/internal/domain/league"
	restdaydomain "fitness-league-go/internal/domain/restday"
	submissiondomain "fitness-league-go/internal/domain/submission"
	userdomain "fitness-league-go/internal/domain/user"
	validationdomain "fitness-league-go/internal/domain/validation"
	"fitness-league-go/internal/repository/objectstore"
	leaderboardrepo "fitness-league-go/internal/repository/postgres/leaderboard"
	leaguerepo "fitness-league-go/internal/repository/postgres/league"
	restdayrepo "fitness-league-go/internal/repository/postgres/restday"
	submissionrepo "fitness-league-go/internal/repository/postgres/submission"
	userrepo "fitness-league-go/internal/repository/postgres/user"
	validationrepo "fitness-league-go/internal/repository/postgres/validation"
	"fitness-league-go/internal/transport/httpserver"
	"fitness-league-go/internal/transport/httpserver/handler"
	"fitness-league-go/internal/worker"
	"fitness-league-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	scheduler  *worker.RestDayScheduler
	db         *gorm.DB
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := db.Migrate(dbConn, log); err != nil {
			closeDB(dbConn)
			return nil, err
		}
	}

	members := leaguedomain.NewService(leaguerepo.NewPostgres(dbConn), cfg.StorageTimeout)
	validation := validationdomain.NewService(validationrepo.NewPostgres(dbConn), members, cfg.StorageTimeout)
	leaderboards := leaderboarddomain.NewService(leaderboardrepo.NewPostgres(dbConn), cfg.StorageTimeout)
	restDays := restdaydomain.NewService(restdayrepo.NewPostgres(dbConn), log.With("component", "restday"), cfg.StorageTimeout)
	profiles := userdomain.NewService(userrepo.NewPostgres(dbConn))

	var proofs submissiondomain.ProofStore
	if cfg.Proofs.Enabled() {
		store, err := objectstore.NewProofStore(context.Background(), cfg.Proofs)
		if err != nil {
			closeDB(dbConn)
			return nil, fmt.Errorf("init proof store: %w", err)
		}
		proofs = store
	} else {
		log.Warn("app: proof uploads disabled, PROOF_BUCKET or credentials missing")
	}
	submissions := submissiondomain.NewService(submissionrepo.NewPostgres(dbConn), members, proofs, cfg.StorageTimeout)

	log.Info("app: initializing router")
	handlers := handler.New(members, validation, leaderboards, submissions, restDays, log)
	router := httpserver.NewRouter(cfg, handlers, profiles, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	application := &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		log:        log,
	}

	if cfg.RestDay.Enabled {
		hour, minute, err := config.ParseRunAt(cfg.RestDay.RunAt)
		if err != nil {
			closeDB(dbConn)
			return nil, err
		}
		application.scheduler, err = worker.NewRestDayScheduler(restDays, hour, minute, log)
		if err != nil {
			closeDB(dbConn)
			return nil, err
		}
	}

	return application, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// StartWorkers starts background jobs. It is a no-op when the rest-day
// backfill is disabled.
func (a *App) StartWorkers() {
	if a.scheduler == nil {
		a.log.Info("worker: rest day backfill disabled")
		return
	}
	a.scheduler.Start()
}

func (a *App) Close() error {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			a.log.Error("worker: shutdown failed", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
