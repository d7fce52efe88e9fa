package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"scenario-sim-api/pkg/models"
)

func pricing(priceChange, discount, costVariation, elasticity float64) *models.PricingOverrides {
	return &models.PricingOverrides{
		PriceChange:     Float(priceChange),
		Discount:        Float(discount),
		CostVariation:   Float(costVariation),
		PriceElasticity: Float(elasticity),
	}
}

func demand(marketing, promotion, seasonal float64, holiday models.HolidayEffect, weather float64) *models.DemandOverrides {
	return &models.DemandOverrides{
		MarketingSpend:     Float(marketing),
		PromotionIntensity: Float(promotion),
		SeasonalMultiplier: Float(seasonal),
		HolidayEffect:      holiday,
		WeatherImpact:      Float(weather),
	}
}

func competitive(priceChange float64, promotion models.CompetitorPromotion, shareGoal float64) *models.CompetitiveOverrides {
	return &models.CompetitiveOverrides{
		CompetitorPriceChange: Float(priceChange),
		CompetitorPromotion:   promotion,
		MarketShareGoal:       Float(shareGoal),
	}
}

func inventory(orderQuantity, leadTime float64, safetyStock, variability models.Level) *models.InventoryOverrides {
	return &models.InventoryOverrides{
		OrderQuantity:     Float(orderQuantity),
		LeadTime:          Float(leadTime),
		SafetyStockLevel:  safetyStock,
		DemandVariability: variability,
	}
}

// BuiltinPresets は組み込みプリセットの新しいコピーを返します。
func BuiltinPresets() []models.PresetScenario {
	return []models.PresetScenario{
		{
			ID:          "aggressive-growth",
			Name:        "Aggressive Market Entry",
			Description: "Capture market share with aggressive pricing and high marketing",
			Emoji:       "🚀",
			Color:       "from-red-500 to-orange-600",
			Factors: models.PartialFactors{
				Pricing:     pricing(-15, 10, 0, -1.5),
				Demand:      demand(25000, 8, 1.0, models.HolidayNone, 0),
				Competitive: competitive(0, models.CompetitorPromotionNone, 10),
			},
		},
		{
			ID:          "clearance-sale",
			Name:        "Clearance Sale Optimization",
			Description: "Move excess inventory quickly with deep discounts",
			Emoji:       "🏷️",
			Color:       "from-purple-500 to-pink-600",
			Factors: models.PartialFactors{
				Pricing:   pricing(-25, 30, 0, -1.8),
				Demand:    demand(5000, 9, 1.0, models.HolidayNone, 0),
				Inventory: inventory(-40, 0, models.LevelLow, models.LevelHigh),
			},
		},
		{
			ID:          "premium-position",
			Name:        "Premium Repositioning",
			Description: "Build premium brand with higher prices and quality perception",
			Emoji:       "💎",
			Color:       "from-indigo-500 to-purple-600",
			Factors: models.PartialFactors{
				Pricing:     pricing(20, 0, 10, -0.8),
				Demand:      demand(15000, 2, 1.0, models.HolidayNone, 0),
				Competitive: competitive(0, models.CompetitorPromotionNone, -5),
			},
		},
		{
			ID:          "seasonal-peak",
			Name:        "Seasonal Peak Preparation",
			Description: "Optimize for high-demand season with inventory buildup",
			Emoji:       "🎄",
			Color:       "from-green-500 to-teal-600",
			Factors: models.PartialFactors{
				Pricing:   pricing(5, 0, 0, -1.2),
				Demand:    demand(10000, 5, 1.8, models.HolidayMajor, 0.5),
				Inventory: inventory(50, -20, models.LevelHigh, models.LevelHigh),
			},
		},
		{
			ID:          "competitor-response",
			Name:        "Competitor Response Defense",
			Description: "Match competitor actions to maintain market position",
			Emoji:       "🛡️",
			Color:       "from-blue-500 to-cyan-600",
			Factors: models.PartialFactors{
				Pricing:     pricing(-10, 15, 0, -1.5),
				Demand:      demand(12000, 6, 1.0, models.HolidayNone, 0),
				Competitive: competitive(-15, models.CompetitorPromotionHeavy, 0),
			},
		},
		{
			ID:          "cost-reduction",
			Name:        "Cost Reduction Impact",
			Description: "Analyze effect of operational cost improvements",
			Emoji:       "💰",
			Color:       "from-yellow-500 to-orange-600",
			Factors: models.PartialFactors{
				Pricing: pricing(-5, 5, -15, -1.5),
				Demand:  demand(8000, 4, 1.0, models.HolidayNone, 0),
				Operational: &models.OperationalOverrides{
					ServiceLevelTarget: Float(95),
					StockoutCostImpact: models.LevelLow,
					HoldingCostRate:    Float(20),
				},
			},
		},
		{
			ID:          "inventory-liquidation",
			Name:        "Inventory Liquidation",
			Description: "Reduce excess stock with targeted promotions",
			Emoji:       "📦",
			Color:       "from-orange-500 to-red-600",
			Factors: models.PartialFactors{
				Pricing:   pricing(-20, 25, 0, -1.8),
				Demand:    demand(3000, 8, 1.0, models.HolidayNone, 0),
				Inventory: inventory(-50, 0, models.LevelLow, models.LevelMedium),
			},
		},
		{
			ID:          "new-product-launch",
			Name:        "New Product Launch",
			Description: "Build awareness and trial with introductory pricing",
			Emoji:       "🆕",
			Color:       "from-pink-500 to-rose-600",
			Factors: models.PartialFactors{
				Pricing:   pricing(-10, 20, 5, -2.0),
				Demand:    demand(30000, 9, 1.0, models.HolidayMinor, 0),
				Inventory: inventory(30, -10, models.LevelMedium, models.LevelHigh),
			},
		},
		{
			ID:          "sustainable-growth",
			Name:        "Sustainable Growth",
			Description: "Balanced approach for steady long-term growth",
			Emoji:       "🌱",
			Color:       "from-emerald-500 to-green-600",
			Factors: models.PartialFactors{
				Pricing:   pricing(3, 0, 0, -1.3),
				Demand:    demand(8000, 3, 1.0, models.HolidayNone, 0),
				Inventory: inventory(10, 0, models.LevelMedium, models.LevelLow),
			},
		},
		{
			ID:          "market-disruption",
			Name:        "Market Disruption Defense",
			Description: "Respond to major market changes or new entrants",
			Emoji:       "⚡",
			Color:       "from-violet-500 to-purple-600",
			Factors: models.PartialFactors{
				Pricing:     pricing(-12, 18, -5, -1.6),
				Demand:      demand(20000, 7, 1.0, models.HolidayNone, 0),
				Competitive: competitive(-20, models.CompetitorPromotionHeavy, 5),
			},
		},
	}
}

// PresetService はプリセットライブラリを提供します。
// 組み込みプリセットに YAML から読み込んだものを追加し、同じIDは上書きします。
// 生成後は読み取り専用です。
type PresetService struct {
	order   []string
	presets map[string]models.PresetScenario
	logger  zerolog.Logger
}

// NewPresetService は新しいPresetServiceを生成します。
func NewPresetService(extra []models.PresetScenario, logger zerolog.Logger) *PresetService {
	s := &PresetService{
		presets: make(map[string]models.PresetScenario),
		logger:  logger.With().Str("component", "presets").Logger(),
	}
	for _, p := range BuiltinPresets() {
		s.put(p)
	}
	for _, p := range extra {
		if _, exists := s.presets[p.ID]; exists {
			s.logger.Info().Str("preset_id", p.ID).Msg("Overriding built-in preset")
		}
		s.put(p)
	}
	s.logger.Debug().Int("count", len(s.order)).Msg("Preset library ready")
	return s
}

func (s *PresetService) put(p models.PresetScenario) {
	if _, exists := s.presets[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.presets[p.ID] = p
}

// List はプリセットを登録順に返します。
func (s *PresetService) List() []models.PresetScenario {
	out := make([]models.PresetScenario, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.presets[id])
	}
	return out
}

func (s *PresetService) Get(id string) (models.PresetScenario, error) {
	p, ok := s.presets[id]
	if !ok {
		return models.PresetScenario{}, fmt.Errorf("preset %q: %w", id, ErrPresetNotFound)
	}
	return p, nil
}

// Apply は指定IDのプリセットを base に適用します。
func (s *PresetService) Apply(id string, base models.AllFactors) (models.AllFactors, error) {
	p, err := s.Get(id)
	if err != nil {
		return models.AllFactors{}, err
	}
	return ApplyPreset(base, p), nil
}
