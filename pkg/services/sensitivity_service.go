package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"scenario-sim-api/pkg/models"
)

const (
	defaultSweepSteps = 11
	minSweepSteps     = 2
	maxSweepSteps     = 50

	// 利益の振れ幅 / 基準利益
	mediumSensitivityRatio = 0.10
	highSensitivityRatio   = 0.50
)

// lever は数値要因1つを書き換えます。
type lever func(f *models.AllFactors, v float64)

var levers = map[string]lever{
	"priceChange":           func(f *models.AllFactors, v float64) { f.Pricing.PriceChange = v },
	"discount":              func(f *models.AllFactors, v float64) { f.Pricing.Discount = v },
	"costVariation":         func(f *models.AllFactors, v float64) { f.Pricing.CostVariation = v },
	"priceElasticity":       func(f *models.AllFactors, v float64) { f.Pricing.PriceElasticity = v },
	"marketingSpend":        func(f *models.AllFactors, v float64) { f.Demand.MarketingSpend = v },
	"promotionIntensity":    func(f *models.AllFactors, v float64) { f.Demand.PromotionIntensity = v },
	"seasonalMultiplier":    func(f *models.AllFactors, v float64) { f.Demand.SeasonalMultiplier = v },
	"competitorPriceChange": func(f *models.AllFactors, v float64) { f.Competitive.CompetitorPriceChange = v },
	"orderQuantity":         func(f *models.AllFactors, v float64) { f.Inventory.OrderQuantity = v },
	"leadTime":              func(f *models.AllFactors, v float64) { f.Inventory.LeadTime = v },
	"holdingCostRate":       func(f *models.AllFactors, v float64) { f.Operational.HoldingCostRate = v },
}

// Levers は感度分析に使える要因名を返します。
func Levers() []string {
	names := make([]string, 0, len(levers))
	for name := range levers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SensitivityService は1要因を範囲内で動かしたときの業績の変化を分析します。
type SensitivityService struct {
	logger zerolog.Logger
}

// NewSensitivityService は新しいSensitivityServiceを生成します。
func NewSensitivityService(logger zerolog.Logger) *SensitivityService {
	return &SensitivityService{
		logger: logger.With().Str("component", "sensitivity").Logger(),
	}
}

// Sweep は lever を [lo, hi] で steps 点評価します。steps が0ならデフォルトの11点です。
func (s *SensitivityService) Sweep(product models.Product, base models.AllFactors, leverName string, lo, hi float64, steps int) (models.SensitivityResult, error) {
	apply, ok := levers[leverName]
	if !ok {
		return models.SensitivityResult{}, fmt.Errorf("%w: unknown lever %q", ErrInvalidSweep, leverName)
	}
	if steps == 0 {
		steps = defaultSweepSteps
	}
	if steps < minSweepSteps || steps > maxSweepSteps {
		return models.SensitivityResult{}, fmt.Errorf("%w: steps must be between %d and %d", ErrInvalidSweep, minSweepSteps, maxSweepSteps)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo >= hi {
		return models.SensitivityResult{}, fmt.Errorf("%w: min must be less than max", ErrInvalidSweep)
	}

	baseline, _, err := evaluate(product, base)
	if err != nil {
		return models.SensitivityResult{}, err
	}

	result := models.SensitivityResult{
		Lever:          leverName,
		Points:         make([]models.SensitivityPoint, 0, steps),
		BaselineProfit: baseline.Profit,
	}
	xs := make([]float64, 0, steps)
	profits := make([]float64, 0, steps)
	revenues := make([]float64, 0, steps)

	stepSize := (hi - lo) / float64(steps-1)
	for i := 0; i < steps; i++ {
		value := roundTo(lo+stepSize*float64(i), 6)
		factors := cloneFactors(base)
		apply(&factors, value)

		outcome, rec, err := evaluate(product, factors)
		if err != nil {
			return models.SensitivityResult{}, fmt.Errorf("%s=%v: %w", leverName, value, err)
		}

		result.Points = append(result.Points, models.SensitivityPoint{
			Value:        value,
			Revenue:      outcome.Revenue,
			Profit:       outcome.Profit,
			Margin:       outcome.Margin,
			UnitsSold:    outcome.UnitsSold,
			Confidence:   rec.Confidence,
			RiskLevel:    rec.RiskLevel,
			StockoutRisk: outcome.StockoutRisk,
			BestScenario: rec.BestScenario,
		})
		xs = append(xs, value)
		profits = append(profits, outcome.Profit)
		revenues = append(revenues, outcome.Revenue)
	}

	profitAlpha, profitBeta := stat.LinearRegression(xs, profits, nil, false)
	_, revenueBeta := stat.LinearRegression(xs, revenues, nil, false)
	result.ProfitSlope = roundPercent(profitBeta)
	result.RevenueSlope = roundPercent(revenueBeta)

	minProfit, maxProfit := profits[0], profits[0]
	best := result.Points[0]
	for _, p := range result.Points {
		minProfit = math.Min(minProfit, p.Profit)
		maxProfit = math.Max(maxProfit, p.Profit)
		if p.Profit > best.Profit {
			best = p
		}
	}
	result.BestValue = best.Value
	result.BestProfit = best.Profit
	result.ProfitSwing = maxProfit - minProfit

	// 利益が一定の場合は決定係数が定義できないため完全一致とみなす
	if result.ProfitSwing == 0 {
		result.ProfitRSquared = 1
	} else {
		result.ProfitRSquared = roundTo(stat.RSquared(xs, profits, nil, profitAlpha, profitBeta), 4)
	}
	result.Sensitivity = sensitivityRating(result.ProfitSwing, baseline.Profit)

	s.logger.Debug().
		Str("lever", leverName).
		Int("steps", steps).
		Float64("profit_slope", result.ProfitSlope).
		Str("sensitivity", result.Sensitivity).
		Msg("Sensitivity sweep complete")
	return result, nil
}

func sensitivityRating(swing, baselineProfit float64) string {
	if baselineProfit == 0 {
		if swing == 0 {
			return "LOW"
		}
		return "HIGH"
	}
	switch ratio := swing / math.Abs(baselineProfit); {
	case ratio >= highSensitivityRatio:
		return "HIGH"
	case ratio >= mediumSensitivityRatio:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
