package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	config "scenario-sim-api/configs"
	"scenario-sim-api/pkg/handlers"
	"scenario-sim-api/pkg/logger"
)

var (
	app     *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp はGinアプリケーションを一度だけ初期化します。
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		// 環境変数はデプロイ先の設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		l := logger.New(logger.Config{Level: cfg.LogLevel})
		logger.SetGlobalLogger(l)

		svc, err := handlers.NewServices(cfg, l)
		if err != nil {
			initErr = err
			return
		}
		app = handlers.NewRouter(cfg, svc, l)
		l.Info().Msg("Application initialized")
	})
	return app, initErr
}

// Handler はサーバーレス環境のすべてのリクエストを処理するエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	a, err := setupApp()
	if err != nil {
		log.Error().Err(err).Msg("Application initialization failed")
		http.Error(w, `{"success":false,"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	a.ServeHTTP(w, r)
}
