package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	config "scenario-sim-api/configs"
	"scenario-sim-api/pkg/handlers"
	"scenario-sim-api/pkg/logger"
)

func main() {
	// .envファイルを読み込み
	envErr := godotenv.Load()

	// 設定の読み込み
	cfg := config.LoadConfig()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)
	if envErr != nil {
		log.Warn().Err(envErr).Msg(".env file not found or could not be loaded")
	}

	r, err := setupRouter(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("environment", cfg.Environment).Msg("Starting scenario-sim-api server")
	if err := r.Run(addr); err != nil {
		log.Error().Err(err).Msg("Failed to start server")
		os.Exit(1)
	}
}

func setupRouter(cfg *config.Config, log zerolog.Logger) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := handlers.NewServices(cfg, log)
	if err != nil {
		return nil, err
	}
	return handlers.NewRouter(cfg, svc, log), nil
}
