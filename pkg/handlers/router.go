package handlers

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	config "scenario-sim-api/configs"
	"scenario-sim-api/pkg/services"
)

// Services はルーターが使うアプリケーションサービスの集合です。
type Services struct {
	Catalog    *services.CatalogService
	Presets    *services.PresetService
	Scenarios  *services.ScenarioService
	Export     *services.ExportService
	Monitoring *services.MonitoringService
}

// NewServices は設定からサービスを初期化します。
// プリセットファイルとカタログファイルは設定されている場合のみ読み込みます。
func NewServices(cfg *config.Config, logger zerolog.Logger) (*Services, error) {
	extra, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}

	catalog := services.NewCatalogService(logger)
	if cfg.CatalogFile != "" {
		result, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Info().Str("file", cfg.CatalogFile).Int("products", len(result.Imported)).Msg("Catalog file loaded")
	}

	presets := services.NewPresetService(extra, logger)
	store := services.NewScenarioStore(cfg.MaxScenariosPerSession, logger)

	return &Services{
		Catalog:    catalog,
		Presets:    presets,
		Scenarios:  services.NewScenarioService(catalog, presets, store, services.NewSensitivityService(logger), cfg.ComparisonWindow, logger),
		Export:     services.NewExportService(logger),
		Monitoring: services.NewMonitoringService(logger),
	}, nil
}

// NewRouter はすべてのルートを登録したGinエンジンを返します。
func NewRouter(cfg *config.Config, svc *Services, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// ミドルウェアの登録
	r.Use(svc.Monitoring.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("X-API-KEY", sessionHeader)
	r.Use(cors.New(corsConfig))

	scenarioHandler := NewScenarioHandler(svc.Scenarios, svc.Export)
	productHandler := NewProductHandler(svc.Catalog)
	presetHandler := NewPresetHandler(svc.Presets)
	adminHandler := NewAdminHandler(cfg, logger)
	monitoringHandler := NewMonitoringHandler(svc.Monitoring)

	// ヘルスチェックエンドポイント
	r.GET("/health", HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(APIKeyAuth(cfg.APIKey))
	{
		factors := v1.Group("/factors")
		{
			factors.GET("/default", DefaultFactors)
			factors.GET("/neutral", NeutralFactors)
		}

		presets := v1.Group("/presets")
		{
			presets.GET("", presetHandler.List)
			presets.GET("/:id", presetHandler.Get)
			presets.POST("/:id/apply", presetHandler.Apply)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("/import", productHandler.Import)
		}

		scenarios := v1.Group("/scenarios")
		{
			scenarios.POST("/calculate", scenarioHandler.Calculate)
			scenarios.POST("/recommend", scenarioHandler.Recommend)
			scenarios.GET("/compare", scenarioHandler.Compare)
			scenarios.GET("/export", scenarioHandler.Export)
			scenarios.GET("/levers", scenarioHandler.Levers)
			scenarios.POST("/sensitivity", scenarioHandler.Sensitivity)
			scenarios.POST("", scenarioHandler.Save)
			scenarios.GET("", scenarioHandler.List)
			scenarios.DELETE("", scenarioHandler.Clear)
			scenarios.GET("/:id", scenarioHandler.Get)
			scenarios.DELETE("/:id", scenarioHandler.Delete)
		}

		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		v1.GET("/monitoring/logs", monitoringHandler.GetLogs)
	}

	return r
}
