package config

import (
	"fmt"
	"os"
	"strconv"

	"shion/internal/rating"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath      string
	ServerPort  string
	LogLevel    string
	SteamAPIKey string
	SteamAPIURL string
	IPAPIURL    string
	AGDBAPIURL  string
	Rating      rating.Config
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	ratingCfg := rating.DefaultConfig()
	var err error
	if ratingCfg.Beta, err = getEnvFloat("RATING_BETA", ratingCfg.Beta); err != nil {
		return nil, err
	}
	if ratingCfg.Kappa, err = getEnvFloat("RATING_KAPPA", ratingCfg.Kappa); err != nil {
		return nil, err
	}
	if ratingCfg.SigmaFloor, err = getEnvFloat("RATING_SIGMA_FLOOR", ratingCfg.SigmaFloor); err != nil {
		return nil, err
	}
	if ratingCfg.Beta <= 0 {
		return nil, fmt.Errorf("RATING_BETA must be positive, got %f", ratingCfg.Beta)
	}
	if ratingCfg.Kappa <= 0 || ratingCfg.Kappa > 1 {
		return nil, fmt.Errorf("RATING_KAPPA must be in (0, 1], got %f", ratingCfg.Kappa)
	}
	if ratingCfg.SigmaFloor < 0 {
		return nil, fmt.Errorf("RATING_SIGMA_FLOOR must not be negative, got %f", ratingCfg.SigmaFloor)
	}

	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "shion.db"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SteamAPIKey: getEnv("STEAM_API_KEY", ""),
		SteamAPIURL: getEnv("STEAM_API_URL", "https://api.steampowered.com"),
		IPAPIURL:    getEnv("IP_API_URL", "http://ip-api.com"),
		AGDBAPIURL:  getEnv("AGDB_API_URL", "https://agdb.7mochi.ru"),
		Rating:      ratingCfg,
	}

	if cfg.SteamAPIKey == "" {
		logger.Warn().Msg("STEAM_API_KEY is not set, player creation will fail")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("rating_version", cfg.Rating.Version).
		Float64("rating_beta", cfg.Rating.Beta).
		Float64("rating_kappa", cfg.Rating.Kappa).
		Float64("rating_sigma_floor", cfg.Rating.SigmaFloor).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

// RatingConfig exposes the rating constants to the graph on their own.
func RatingConfig(cfg *Config) rating.Config {
	return cfg.Rating
}

var Module = fx.Provide(Load, RatingConfig)
