package fx

import (
	"database/sql"

	"shion/internal/api"
	"shion/internal/config"
	"shion/internal/database"
	"shion/internal/db"
	"shion/internal/logger"
	"shion/internal/repository"
	"shion/internal/server"
	"shion/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// Core is everything the maintenance commands need; Module adds the HTTP server on top.
var Core = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewStatsRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewMatchRecordRepository),
	fx.Provide(repository.NewRatingHistoryRepository),
	fx.Provide(repository.NewStore),
	// api clients
	fx.Provide(api.NewSteamClient),
	fx.Provide(api.NewIPAPIClient),
	fx.Provide(api.NewAGDBClient),
	// svc
	fx.Provide(service.NewMatchProcessor),
	fx.Provide(service.NewReprocessor),
	fx.Provide(service.NewMatchRecordService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMaintenanceService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(server.NewRatingServer),
)
