package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenario-sim-api/pkg/models"
)

func testProduct() models.Product {
	return models.Product{
		ID:            "test-001",
		Name:          "Test Product",
		CurrentPrice:  10,
		Cost:          6,
		CurrentDemand: 1000,
		Category:      "test",
	}
}

func TestCalculateScenarioOutcome_NeutralBaseline(t *testing.T) {
	outcome := CalculateScenarioOutcome(testProduct(), NeutralFactors())

	assert.Equal(t, 10000.0, outcome.Revenue)
	assert.Equal(t, 0.0, outcome.RevenueChange)
	assert.Equal(t, 3000.0, outcome.Profit) // (10000 - 6000) * (1 - 0.25)
	assert.Equal(t, 0.0, outcome.ProfitChange)
	assert.Equal(t, 30.0, outcome.Margin)
	assert.Equal(t, 50.0, outcome.ROI)
	assert.Equal(t, 1000.0, outcome.UnitsSold)
	assert.Equal(t, 0.0, outcome.DemandChange)
	assert.Equal(t, 10.0, outcome.EffectivePrice)
	assert.Equal(t, 7000.0, outcome.TotalCost)
	assert.Equal(t, 7.7, outcome.LeadTimeImpact)
	assert.Equal(t, 91.2, outcome.ServiceLevel)
	assert.Equal(t, 185.0, outcome.InventoryLevel)
	assert.Equal(t, 462.0, outcome.CarryingCost)
	assert.Equal(t, 0.0, outcome.OrderingCost)
	assert.Equal(t, 2538.0, outcome.CashFlow)
	assert.Equal(t, 0.0, outcome.BreakEvenPoint)
	// 発注コスト0ではEOQが0になり、安全在庫だけでは欠品リスクが高い
	assert.Equal(t, models.LevelHigh, outcome.StockoutRisk)
	assert.Equal(t, models.LevelLow, outcome.OverstockRisk)
}

func TestCalculateScenarioOutcome_DefaultFactors(t *testing.T) {
	outcome := CalculateScenarioOutcome(testProduct(), CreateDefaultFactors())

	// デフォルト値だけで約+15.76%の需要ドリフトがある
	assert.Equal(t, 11576.0, outcome.Revenue)
	assert.Equal(t, 15.76, outcome.RevenueChange)
	assert.Equal(t, 15.76, outcome.DemandChange)
	assert.Equal(t, 1158.0, outcome.UnitsSold)
	assert.Equal(t, 3013.0, outcome.Profit)
	assert.Equal(t, 0.44, outcome.ProfitChange)
	assert.Equal(t, 26.03, outcome.Margin)
	assert.Equal(t, 42.12, outcome.ROI)
	assert.Equal(t, 859.0, outcome.InventoryLevel)
	assert.Equal(t, 3763.0, outcome.CarryingCost)
	assert.Equal(t, 1614.0, outcome.OrderingCost)
	assert.Equal(t, -750.0, outcome.CashFlow)
	assert.Equal(t, 455.0, outcome.BreakEvenPoint)
	assert.Equal(t, 8563.0, outcome.TotalCost)
	assert.Equal(t, models.LevelLow, outcome.StockoutRisk)
	assert.Equal(t, models.LevelLow, outcome.OverstockRisk)
}

func TestCalculateScenarioOutcome_PriceCutWithDiscount(t *testing.T) {
	f := NeutralFactors()
	f.Pricing.PriceChange = -15
	f.Pricing.Discount = 10
	f.Pricing.PriceElasticity = -1.5

	impacts := CalculateFactorImpacts(f)
	require.InDelta(t, 0.225, impacts.Price, 1e-12)
	require.InDelta(t, 0.08, impacts.Discount, 1e-12)

	outcome := CalculateScenarioOutcome(testProduct(), f)

	// 1000 * (1 + 0.225 + 0.08)
	assert.Equal(t, 1305.0, outcome.UnitsSold)
	assert.Equal(t, 30.5, outcome.DemandChange)
	assert.Equal(t, 7.65, outcome.EffectivePrice) // 10 * 0.85 * 0.9
	assert.Equal(t, 9983.0, outcome.Revenue)
	assert.Equal(t, -0.17, outcome.RevenueChange)
	assert.Equal(t, 1615.0, outcome.Profit)
	assert.Equal(t, -46.17, outcome.ProfitChange)
	assert.Equal(t, 16.18, outcome.Margin)
}

func TestCalculateScenarioOutcome_MarketingSpend(t *testing.T) {
	f := NeutralFactors()
	f.Demand.MarketingSpend = 10000

	assert.InDelta(t, 0.3597, MarketingImpact(10000), 1e-4)

	outcome := CalculateScenarioOutcome(testProduct(), f)
	assert.Equal(t, 1360.0, outcome.UnitsSold)
	assert.Equal(t, 35.97, outcome.DemandChange)
	assert.Equal(t, 2500.0, outcome.BreakEvenPoint)
	assert.Equal(t, -5189.0, outcome.CashFlow)
}

func TestCalculateScenarioOutcome_DemandFloor(t *testing.T) {
	f := NeutralFactors()
	f.Pricing.PriceChange = 60
	f.Pricing.PriceElasticity = -3
	f.Demand.ExternalEvent = "crisis"

	require.Less(t, CalculateFactorImpacts(f).Total(), -1.0)

	outcome := CalculateScenarioOutcome(testProduct(), f)
	assert.Equal(t, 0.0, outcome.UnitsSold)
	assert.Equal(t, 0.0, outcome.Revenue)
	assert.Equal(t, -100.0, outcome.DemandChange)
	assert.Equal(t, -100.0, outcome.ProfitChange)
	assert.Equal(t, 16.0, outcome.EffectivePrice)
}

func TestCalculateScenarioOutcome_Monotonicity(t *testing.T) {
	product := testProduct()

	t.Run("more marketing never lowers units", func(t *testing.T) {
		prev := -1.0
		for _, spend := range []float64{0, 1000, 5000, 10000, 25000, 50000} {
			f := NeutralFactors()
			f.Demand.MarketingSpend = spend
			units := CalculateScenarioOutcome(product, f).UnitsSold
			assert.GreaterOrEqual(t, units, prev, "spend=%v", spend)
			prev = units
		}
	})

	t.Run("price increase lowers units under negative elasticity", func(t *testing.T) {
		prev := math.Inf(1)
		for _, change := range []float64{-30, -15, 0, 15, 30} {
			f := NeutralFactors()
			f.Pricing.PriceChange = change
			units := CalculateScenarioOutcome(product, f).UnitsSold
			assert.LessOrEqual(t, units, prev, "priceChange=%v", change)
			prev = units
		}
	})
}

func TestCalculateScenarioOutcome_DeterministicAndPure(t *testing.T) {
	f := CreateDefaultFactors()
	f.Demand.ChurnRate = Float(0.1)
	f.Market = &models.MarketFactors{GDPGrowth: Float(0.02)}
	before := cloneFactors(f)

	first := CalculateScenarioOutcome(testProduct(), f)
	second := CalculateScenarioOutcome(testProduct(), f)

	assert.Equal(t, first, second)
	assert.Equal(t, before, f, "input factors must not be modified")
}

func TestCalculateScenarioOutcome_RoundingHalfAwayFromZero(t *testing.T) {
	// 需要0・発注コスト150: 損益分岐点は 150 / (10 - 6) = 37.5
	product := testProduct()
	product.CurrentDemand = 0

	outcome := CalculateScenarioOutcome(product, CreateDefaultFactors())
	assert.Equal(t, 38.0, outcome.BreakEvenPoint)
	assert.Equal(t, -150.0, outcome.Profit)

	assert.Equal(t, 3.0, roundWhole(2.5))
	assert.Equal(t, -3.0, roundWhole(-2.5))
	assert.Equal(t, 1.01, roundPercent(1.005))
	assert.Equal(t, 7.7, roundTo(7.7, 1))
}

func TestCalculateScenarioOutcome_ZeroBaselineGuarded(t *testing.T) {
	product := testProduct()
	product.CurrentDemand = 0

	outcome := CalculateScenarioOutcome(product, NeutralFactors())

	assert.Equal(t, 0.0, outcome.DemandChange)
	assert.Equal(t, 0.0, outcome.RevenueChange)
	assert.Equal(t, 0.0, outcome.OrderingCost)
	assert.Equal(t, 0.0, outcome.CarryingCost)
	assert.Equal(t, 0.0, outcome.CashFlow)
	assert.Equal(t, models.LevelLow, outcome.StockoutRisk)
	assert.Equal(t, models.LevelLow, outcome.OverstockRisk)
	assertAllFinite(t, outcome)
}

func TestCalculateScenarioOutcome_ZeroBaselinePropagated(t *testing.T) {
	product := testProduct()
	product.CurrentDemand = 0

	outcome := CalculateScenarioOutcomeWithOptions(product, NeutralFactors(), CalculationOptions{PropagateNonFinite: true})

	assert.True(t, math.IsNaN(outcome.DemandChange))
	assert.True(t, math.IsNaN(outcome.RevenueChange))
	assert.True(t, math.IsNaN(outcome.OrderingCost))
	assert.True(t, math.IsNaN(outcome.CarryingCost))
	assert.True(t, math.IsNaN(outcome.CashFlow))
	// NaN日数はどの閾値も満たさないため high に落ちる
	assert.Equal(t, models.LevelHigh, outcome.StockoutRisk)
	assert.Equal(t, models.LevelHigh, outcome.OverstockRisk)
	// ガード済みの項目は有限のまま
	assert.Equal(t, 0.0, outcome.Margin)
	assert.Equal(t, 0.0, outcome.ProfitChange)
	assert.Equal(t, 0.0, outcome.BreakEvenPoint)

	assert.NotPanics(t, func() {
		rec := GenerateRecommendation(outcome, NeutralFactors())
		assert.GreaterOrEqual(t, rec.Confidence, minConfidence)
	})
}

func TestCalculateScenarioOutcome_ZeroPriceGuarded(t *testing.T) {
	product := testProduct()
	product.CurrentPrice = 0

	outcome := CalculateScenarioOutcome(product, CreateDefaultFactors())

	assert.Equal(t, 0.0, outcome.Revenue)
	assert.Equal(t, 0.0, outcome.RevenueChange)
	assert.Equal(t, 0.0, outcome.OrderingCost)
	assertAllFinite(t, outcome)

	propagated := CalculateScenarioOutcomeWithOptions(product, CreateDefaultFactors(), CalculationOptions{PropagateNonFinite: true})
	assert.True(t, math.IsNaN(propagated.RevenueChange))
	assert.True(t, math.IsInf(propagated.InventoryLevel, 1))
}

func TestCalculateScenarioOutcome_OptionalCostDrivers(t *testing.T) {
	base := CalculateScenarioOutcome(testProduct(), NeutralFactors())

	f := NeutralFactors()
	f.Financial.CurrencyRisk = "high"
	f.Financial.PaymentTerms = "net-90"
	f.Inventory.SourcingStrategy = "global"
	f.Operational.DefectRate = Float(0.05)
	withCosts := CalculateScenarioOutcome(testProduct(), f)

	assert.Equal(t, base.Revenue, withCosts.Revenue)
	assert.Less(t, withCosts.Profit, base.Profit)
	assert.Greater(t, withCosts.TotalCost, base.TotalCost)
	assert.Greater(t, withCosts.CarryingCost, base.CarryingCost)
}

func TestCalculateScenarioOutcome_WarehouseConstraint(t *testing.T) {
	f := CreateDefaultFactors()
	normal := CalculateScenarioOutcome(testProduct(), f)

	f.Inventory.WarehouseUtilization = Float(0.95)
	constrained := CalculateScenarioOutcome(testProduct(), f)

	assert.InDelta(t, normal.InventoryLevel*0.85, constrained.InventoryLevel, 1)
}

func TestCalculateScenarioOutcome_LeadTime(t *testing.T) {
	f := CreateDefaultFactors()
	f.Inventory.SupplierReliability = Float(0.8)
	f.Inventory.LeadTime = 50

	outcome := CalculateScenarioOutcome(testProduct(), f)
	// (7 + 7 * 0.2 * 2) * 1.5 = 14.7
	assert.Equal(t, 14.7, outcome.LeadTimeImpact)
}

func assertAllFinite(t *testing.T, o models.ScenarioOutcome) {
	t.Helper()
	values := map[string]float64{
		"revenue": o.Revenue, "revenueChange": o.RevenueChange, "profit": o.Profit,
		"profitChange": o.ProfitChange, "margin": o.Margin, "roi": o.ROI,
		"unitsSold": o.UnitsSold, "demandChange": o.DemandChange, "inventoryLevel": o.InventoryLevel,
		"carryingCost": o.CarryingCost, "orderingCost": o.OrderingCost, "serviceLevel": o.ServiceLevel,
		"leadTimeImpact": o.LeadTimeImpact, "cashFlow": o.CashFlow, "breakEvenPoint": o.BreakEvenPoint,
		"effectivePrice": o.EffectivePrice, "totalCost": o.TotalCost,
	}
	for name, v := range values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite: %v", name, v)
	}
}

func TestRoundWhole(t *testing.T) {
	testCases := []struct {
		in       float64
		expected float64
	}{
		{2.5, 3},
		{-2.5, -3},
		{37.5, 38},
		{1234.4999, 1234},
		{-0.4, 0},
		{0, 0},
	}
	for _, tc := range testCases {
		got := roundWhole(tc.in)
		assert.Equal(t, tc.expected, got, "in=%v", tc.in)
		assert.Equal(t, roundTo(tc.in, 0), got, "in=%v", tc.in)
	}

	assert.False(t, math.Signbit(roundWhole(-0.4)), "negative zero is normalized")
	assert.True(t, math.IsNaN(roundWhole(math.NaN())))
	assert.True(t, math.IsInf(roundWhole(math.Inf(-1)), -1))

	allocs := testing.AllocsPerRun(100, func() {
		_ = roundWhole(1234.56)
	})
	assert.Equal(t, 0.0, allocs)
}
