package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"scenario-sim-api/pkg/models"
)

// ScenarioService は計算エンジンとカタログ・プリセット・セッションストアをつなぐアプリケーションサービスです。
type ScenarioService struct {
	catalog          *CatalogService
	presets          *PresetService
	store            *ScenarioStore
	sensitivity      *SensitivityService
	comparisonWindow int
	logger           zerolog.Logger
}

// NewScenarioService は新しいScenarioServiceを生成します。
func NewScenarioService(
	catalog *CatalogService,
	presets *PresetService,
	store *ScenarioStore,
	sensitivity *SensitivityService,
	comparisonWindow int,
	logger zerolog.Logger,
) *ScenarioService {
	return &ScenarioService{
		catalog:          catalog,
		presets:          presets,
		store:            store,
		sensitivity:      sensitivity,
		comparisonWindow: comparisonWindow,
		logger:           logger.With().Str("component", "scenarios").Logger(),
	}
}

// ResolveProduct はリクエストの商品をそのまま使うか、IDでカタログから取得します。
func (s *ScenarioService) ResolveProduct(product *models.Product, productID string) (models.Product, error) {
	if product != nil {
		if err := ValidateProduct(*product); err != nil {
			return models.Product{}, err
		}
		return *product, nil
	}
	if strings.TrimSpace(productID) == "" {
		return models.Product{}, fmt.Errorf("%w: product or productId is required", ErrInvalidProduct)
	}
	return s.catalog.Get(productID)
}

func factorsOrDefault(f *models.AllFactors) models.AllFactors {
	if f == nil {
		return CreateDefaultFactors()
	}
	return cloneFactors(*f)
}

// evaluate は計算とレコメンドを実行します。JSONで表現できない結果はエラーにします。
func evaluate(product models.Product, factors models.AllFactors) (models.ScenarioOutcome, models.AIRecommendation, error) {
	outcome := CalculateScenarioOutcome(product, factors)
	if !isFiniteOutcome(outcome) {
		return models.ScenarioOutcome{}, models.AIRecommendation{}, ErrNonFiniteResult
	}
	return outcome, GenerateRecommendation(outcome, factors), nil
}

// Calculate はシナリオを計算し、要因ごとの寄与も返します。
func (s *ScenarioService) Calculate(req models.CalculateRequest) (models.CalculateResponse, error) {
	product, err := s.ResolveProduct(req.Product, req.ProductID)
	if err != nil {
		return models.CalculateResponse{}, err
	}
	factors := factorsOrDefault(req.Factors)

	outcome, rec, err := evaluate(product, factors)
	if err != nil {
		return models.CalculateResponse{}, err
	}
	impacts := CalculateFactorImpacts(factors)

	return models.CalculateResponse{
		Product:        product,
		Outcome:        outcome,
		Recommendation: rec,
		Impacts:        impacts.Breakdown(),
		TotalImpact:    roundTo(impacts.Total(), 6),
	}, nil
}

// Save はシナリオを計算してセッションに保存します。
// PresetID が指定された場合はリクエストの要因（なければデフォルト）にプリセットを重ねます。
func (s *ScenarioService) Save(sessionID string, req models.SaveScenarioRequest) (models.Scenario, error) {
	product, err := s.ResolveProduct(req.Product, req.ProductID)
	if err != nil {
		return models.Scenario{}, err
	}

	factors := factorsOrDefault(req.Factors)
	if req.PresetID != "" {
		factors, err = s.presets.Apply(req.PresetID, factors)
		if err != nil {
			return models.Scenario{}, err
		}
	}

	outcome, rec, err := evaluate(product, factors)
	if err != nil {
		return models.Scenario{}, err
	}

	description := req.Description
	if description == "" {
		description = "Scenario for " + product.Name
	}

	saved := s.store.Add(sessionID, models.Scenario{
		Name:           req.Name,
		Description:    description,
		Product:        product,
		Factors:        factors,
		Outcome:        outcome,
		Recommendation: rec,
		IsPreset:       req.PresetID != "",
		PresetID:       req.PresetID,
	})

	s.logger.Info().
		Str("session_id", saved.SessionID).
		Str("scenario_id", saved.ID).
		Str("product_id", product.ID).
		Str("preset_id", req.PresetID).
		Msg("Scenario saved")
	return saved, nil
}

func (s *ScenarioService) List(sessionID string) []models.Scenario {
	return s.store.List(sessionID)
}

func (s *ScenarioService) Get(sessionID, id string) (models.Scenario, error) {
	return s.store.Get(sessionID, id)
}

func (s *ScenarioService) Delete(sessionID, id string) error {
	return s.store.Delete(sessionID, id)
}

// Clear はセッションを空にし、削除件数を返します。
func (s *ScenarioService) Clear(sessionID string) int {
	n := s.store.Clear(sessionID)
	s.logger.Info().Str("session_id", sessionKey(sessionID)).Int("deleted", n).Msg("Session cleared")
	return n
}

// Compare は直近のシナリオを比較します。
func (s *ScenarioService) Compare(sessionID string) models.ComparisonResult {
	return CompareScenarios(s.store.Recent(sessionID, s.comparisonWindow), s.comparisonWindow)
}

// Sensitivity は1要因の感度分析を実行します。
func (s *ScenarioService) Sensitivity(req models.SensitivityRequest) (models.SensitivityResult, error) {
	product, err := s.ResolveProduct(req.Product, req.ProductID)
	if err != nil {
		return models.SensitivityResult{}, err
	}
	return s.sensitivity.Sweep(product, factorsOrDefault(req.Factors), req.Lever, req.Min, req.Max, req.Steps)
}

func isFiniteOutcome(o models.ScenarioOutcome) bool {
	for _, v := range []float64{
		o.Revenue, o.RevenueChange, o.Profit, o.ProfitChange, o.Margin, o.ROI,
		o.UnitsSold, o.DemandChange, o.InventoryLevel, o.CarryingCost, o.OrderingCost,
		o.ServiceLevel, o.LeadTimeImpact, o.CashFlow, o.BreakEvenPoint, o.EffectivePrice, o.TotalCost,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
