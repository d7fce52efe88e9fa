package services

import (
	"math"

	"github.com/shopspring/decimal"

	"scenario-sim-api/pkg/models"
)

const (
	baseLeadTimeDays    = 7.0
	daysPerMonth        = 30.0
	monthsPerYear       = 12.0
	overstockMediumDays = 30.0
	overstockHighDays   = 60.0
)

var (
	eoqModelMultipliers = map[string]float64{
		"jit":                0.3,
		"quantity-discounts": 1.5,
		"with-backorders":    0.8,
	}
	abcMultipliers               = map[string]float64{"A": 1.5, "B": 1.0}
	// 未知のレベルは medium 扱い
	safetyStockMultipliers       = map[models.Level]float64{models.LevelLow: 0.5, models.LevelMedium: 1.0, models.LevelHigh: 1.5}
	demandVariabilityMultipliers = map[models.Level]float64{models.LevelLow: 0.8, models.LevelMedium: 1.2, models.LevelHigh: 1.8}
	obsolescenceMultipliers      = map[string]float64{"high": 0.6, "medium": 0.8}
	sourcingMultipliers          = map[string]float64{"global": 1.15, "multiple": 1.10, "dual": 1.05}
	paymentTermsFinancingFactors = map[string]float64{"net-90": 0.03, "net-60": 0.02, "net-30": 0.01}
	currencyRiskRevenueFractions = map[string]float64{"high": 0.02, "medium": 0.01, "low": 0.005}
)

// CalculationOptions はゼロ除算の扱いを指定します。
type CalculationOptions struct {
	// true の場合ゼロ除算ガードを外し、基準需要・基準売上・EOQ・新需要が0のとき
	// NaN / ±Inf をそのまま結果に流します。
	PropagateNonFinite bool
}

// CalculateScenarioOutcome は要因セットから商品の業績を予測します（ゼロ除算ガードあり）。
func CalculateScenarioOutcome(product models.Product, factors models.AllFactors) models.ScenarioOutcome {
	return CalculateScenarioOutcomeWithOptions(product, factors, CalculationOptions{})
}

// CalculateScenarioOutcomeWithOptions はゼロ除算の扱いを指定して計算します。
func CalculateScenarioOutcomeWithOptions(product models.Product, factors models.AllFactors, opts CalculationOptions) models.ScenarioOutcome {
	r := resolveFactors(factors)
	guard := !opts.PropagateNonFinite
	ratio := func(num, den float64) float64 {
		if guard && den == 0 {
			return 0
		}
		return num / den
	}

	// 需要
	totalDemandChange := r.impacts().Total()
	baseDemand := product.CurrentDemand
	newDemand := math.Max(0, baseDemand*(1+totalDemandChange))
	demandChangePct := ratio(newDemand-baseDemand, baseDemand) * 100

	// 価格と売上
	adjustedCost := product.Cost * (1 + r.costVariation/100)
	effectivePrice := product.CurrentPrice * (1 + r.priceChange/100) * (1 - r.discount/100)
	currentRevenue := product.CurrentPrice * baseDemand
	newRevenue := effectivePrice * newDemand
	revenueChangePct := ratio(newRevenue-currentRevenue, currentRevenue) * 100

	// コスト
	productionCost := adjustedCost * newDemand
	defectCost := productionCost * r.defectRate
	workingCapitalCost := newRevenue * r.workingCapitalRatio * r.costOfCapital
	badDebtCost := newRevenue * r.badDebtRate
	financingCost := newRevenue * lookupImpact(paymentTermsFinancingFactors, r.paymentTerms, 0) * r.costOfCapital
	currencyRiskCost := newRevenue * lookupImpact(currencyRiskRevenueFractions, r.currencyRisk, 0)

	totalCostsBeforeTax := productionCost + r.marketingSpend + defectCost + r.orderProcessingCost +
		workingCapitalCost + badDebtCost + financingCost + currencyRiskCost

	// 利益
	profitBeforeTax := newRevenue - totalCostsBeforeTax
	taxAmount := 0.0
	if profitBeforeTax > 0 {
		taxAmount = profitBeforeTax * r.taxRate
	}
	newProfit := profitBeforeTax - taxAmount

	currentProfit := (product.CurrentPrice - product.Cost) * baseDemand * (1 - r.taxRate)
	profitChangePct := 0.0
	if currentProfit > 0 {
		profitChangePct = (newProfit - currentProfit) / currentProfit * 100
	}
	margin := 0.0
	if newRevenue > 0 {
		margin = newProfit / newRevenue * 100
	}
	totalInvestment := r.marketingSpend + productionCost + workingCapitalCost
	roi := 0.0
	if totalInvestment > 0 {
		roi = newProfit / totalInvestment * 100
	}

	// 在庫 (EOQ)
	annualDemand := newDemand * monthsPerYear
	unitHoldingCost := effectivePrice * (r.holdingCostRate / 100)
	eoq := 0.0
	if !guard || unitHoldingCost > 0 {
		eoq = math.Sqrt(2 * annualDemand * r.orderProcessingCost / unitHoldingCost)
	}
	adjustedEOQ := eoq * lookupImpact(eoqModelMultipliers, r.eoqModel, 1.0) * (1 + r.orderQuantity/100)

	leadTimeVariability := baseLeadTimeDays * (1 - r.supplierReliability) * 2
	adjustedLeadTime := (baseLeadTimeDays + leadTimeVariability) * (1 + r.leadTime/100)

	safetyStockLevel := lookupImpact(safetyStockMultipliers, r.safetyStockLevel, 1.0) *
		lookupImpact(abcMultipliers, r.abcClassification, 0.6)
	demandVariability := lookupImpact(demandVariabilityMultipliers, r.demandVariability, 1.2)

	dailyDemand := newDemand / daysPerMonth
	safetyStock := dailyDemand * adjustedLeadTime * safetyStockLevel * demandVariability *
		lookupImpact(obsolescenceMultipliers, r.obsolescenceRisk, 1.0)
	inventoryLevel := adjustedEOQ/2 + safetyStock

	warehouseConstraint := 1.0
	if r.warehouseUtilization > 0.90 {
		warehouseConstraint = 0.85
	}
	constrainedInventory := inventoryLevel * warehouseConstraint

	carryingCost := constrainedInventory * unitHoldingCost
	numberOfOrders := ratio(annualDemand, adjustedEOQ)
	orderingCost := numberOfOrders * r.orderProcessingCost
	totalInventoryCost := (carryingCost + orderingCost) * lookupImpact(sourcingMultipliers, r.sourcingStrategy, 1.0)

	stockoutRisk, overstockRisk := classifyInventoryRisk(constrainedInventory, dailyDemand, adjustedLeadTime, demandVariability, guard)

	serviceLevel := r.serviceLevelTarget * math.Min(1, r.capacityUtilization*1.2)

	// キャッシュフロー
	cashFlow := newRevenue - (totalCostsBeforeTax + taxAmount + totalInventoryCost)

	// 損益分岐点
	fixedCosts := r.marketingSpend + orderingCost + r.orderProcessingCost
	variableCostPerUnit := adjustedCost + ratio(defectCost, newDemand)
	contributionMargin := effectivePrice - variableCostPerUnit
	breakEvenPoint := 0.0
	if contributionMargin > 0 {
		breakEvenPoint = fixedCosts / contributionMargin
	}

	return models.ScenarioOutcome{
		Revenue:        roundWhole(newRevenue),
		RevenueChange:  roundPercent(revenueChangePct),
		Profit:         roundWhole(newProfit),
		ProfitChange:   roundPercent(profitChangePct),
		Margin:         roundPercent(margin),
		ROI:            roundPercent(roi),
		UnitsSold:      roundWhole(newDemand),
		DemandChange:   roundPercent(demandChangePct),
		InventoryLevel: roundWhole(constrainedInventory),
		StockoutRisk:   stockoutRisk,
		OverstockRisk:  overstockRisk,
		CarryingCost:   roundWhole(totalInventoryCost),
		OrderingCost:   roundWhole(orderingCost),
		ServiceLevel:   roundPercent(serviceLevel),
		LeadTimeImpact: roundTo(adjustedLeadTime, 1),
		CashFlow:       roundWhole(cashFlow),
		BreakEvenPoint: roundWhole(breakEvenPoint),
		EffectivePrice: roundPercent(effectivePrice),
		TotalCost:      roundWhole(totalCostsBeforeTax + taxAmount),
	}
}

// classifyInventoryRisk は在庫日数から欠品・過剰在庫リスクを判定します。
// ガード有効で日次需要が0の場合、欠品は low、在庫があれば過剰は high です。
func classifyInventoryRisk(inventory, dailyDemand, leadTime, variability float64, guard bool) (stockout, overstock models.Level) {
	if guard && dailyDemand <= 0 {
		if inventory > 0 {
			return models.LevelLow, models.LevelHigh
		}
		return models.LevelLow, models.LevelLow
	}

	daysOfStock := inventory / dailyDemand
	threshold := leadTime * variability

	switch {
	case daysOfStock > threshold*2:
		stockout = models.LevelLow
	case daysOfStock > threshold:
		stockout = models.LevelMedium
	default:
		stockout = models.LevelHigh
	}

	switch {
	case daysOfStock < overstockMediumDays:
		overstock = models.LevelLow
	case daysOfStock < overstockHighDays:
		overstock = models.LevelMedium
	default:
		overstock = models.LevelHigh
	}
	return stockout, overstock
}

// roundTo は四捨五入（0から遠い方向）します。NaN と ±Inf はそのまま返します。
func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// roundWhole は整数への四捨五入です。math.Round も0から遠い方向に丸めるため
// decimal と同じ結果になります。-0 は 0 に正規化します。
func roundWhole(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

func roundPercent(v float64) float64 { return roundTo(v, 2) }
