package services

import (
	"math"

	"scenario-sim-api/pkg/models"
)

const (
	baseConfidence = 90.0
	minConfidence  = 30.0
	maxConfidence  = 98.0
	maxWarnings    = 8
)

const (
	recommendationExcellent = "🎯 EXCELLENT SCENARIO: Strong profit growth with manageable risks. Highly recommended for implementation."
	recommendationGood      = "✅ GOOD SCENARIO: Positive profit improvement with acceptable risk levels. Recommended with monitoring."
	recommendationModerate  = "⚠️ MODERATE SCENARIO: Slight profit gain but several risk factors present. Consider optimizations before implementing."
	recommendationRisky     = "⚠️ RISKY SCENARIO: Limited upside with notable risks. Explore alternative strategies for better results."
	recommendationHighRisk  = "❌ HIGH RISK SCENARIO: Significant profit decline and/or major risk factors. NOT RECOMMENDED without substantial modifications."

	adviceStockout = " Increase inventory safety stock immediately."
	adviceCashFlow = " Address cash flow issues before proceeding."
	adviceMargin   = " Improve pricing or reduce costs to achieve sustainable margins."
)

// finding はチェック項目1件の結果です。penalty が0のものは注意喚起のみで信頼度は下げません。
type finding struct {
	penalty float64
	warning string
}

// riskCheck は1つの観点を検査します。該当しない場合 ok は false です。
type riskCheck func(o models.ScenarioOutcome, r resolvedFactors) (f finding, ok bool)

// riskChecklist は上から順に評価され、警告もこの順序になります。
var riskChecklist = []riskCheck{
	checkPriceChange,
	checkDiscount,
	checkCannibalization,
	checkMarketingSpend,
	checkChurn,
	checkExternalEvent,
	checkCompetitorPrice,
	checkBrandStrength,
	checkMarketConcentration,
	checkStockout,
	checkOverstock,
	checkObsolescence,
	checkWarehouse,
	checkSupplierReliability,
	checkDefectRate,
	checkCapacity,
	checkBadDebt,
	checkWorkingCapital,
	checkCurrencyRisk,
	checkCreditPolicy,
	checkRecession,
	checkInflation,
	checkConsumerConfidence,
	checkRegulatory,
	checkSupplyChain,
	checkTechnologyDisruption,
	checkMargin,
	checkProfitChange,
	checkCashFlow,
	checkROI,
	checkServiceLevel,
}

func checkPriceChange(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	switch change := math.Abs(r.priceChange); {
	case change > 25:
		return finding{20, "Extreme price change may cause market disruption and customer loss"}, true
	case change > 15:
		return finding{10, "Large price change may have unpredictable market effects"}, true
	}
	return finding{}, false
}

func checkDiscount(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.discount > 35 {
		return finding{15, "Heavy discounting may erode brand value and profit margins"}, true
	}
	return finding{}, false
}

func checkCannibalization(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.cannibalizationRate > 0.3 {
		return finding{12, "High cannibalization risk - sales may come from existing products"}, true
	}
	return finding{}, false
}

func checkMarketingSpend(o models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.marketingSpend <= 30000 {
		return finding{}, false
	}
	if marketingROI := o.Profit / r.marketingSpend * 100; marketingROI < 200 {
		return finding{15, "High marketing spend with low ROI - consider reducing budget"}, true
	}
	return finding{0, "High marketing investment - monitor ROI closely"}, true
}

func checkChurn(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.churnRate > 0.15 {
		return finding{10, "High customer churn rate - focus on retention strategies"}, true
	}
	return finding{}, false
}

func checkExternalEvent(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	switch r.externalEvent {
	case "crisis", "negative-major":
		return finding{25, "Severe external conditions - scenario highly uncertain"}, true
	case "negative-minor":
		return finding{10, "Negative external factors may impact results"}, true
	}
	return finding{}, false
}

func checkCompetitorPrice(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if math.Abs(r.competitorPriceChange) > 20 {
		return finding{12, "Major competitor price movement - market share at risk"}, true
	}
	return finding{}, false
}

func checkBrandStrength(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.brandStrength < 0.4 {
		return finding{8, "Weak brand strength limits pricing power"}, true
	}
	return finding{}, false
}

func checkMarketConcentration(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	switch r.marketConcentration {
	case "monopolistic":
		return finding{0, "Dominant market position - regulatory scrutiny possible"}, true
	case "fragmented":
		return finding{5, "Fragmented market increases competitive pressure"}, true
	}
	return finding{}, false
}

func checkStockout(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	switch o.StockoutRisk {
	case models.LevelHigh:
		return finding{15, "HIGH STOCKOUT RISK - increase safety stock or reduce lead time"}, true
	case models.LevelMedium:
		return finding{8, "Moderate stockout risk - monitor inventory levels closely"}, true
	}
	return finding{}, false
}

func checkOverstock(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	if o.OverstockRisk == models.LevelHigh {
		return finding{10, "HIGH OVERSTOCK RISK - excess inventory increases carrying costs"}, true
	}
	return finding{}, false
}

func checkObsolescence(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.obsolescenceRisk == "high" {
		return finding{12, "High obsolescence risk - minimize inventory levels"}, true
	}
	return finding{}, false
}

func checkWarehouse(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.warehouseUtilization > 0.90 {
		return finding{8, "Warehouse near capacity - may constrain operations"}, true
	}
	return finding{}, false
}

func checkSupplierReliability(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.supplierReliability < 0.80 {
		return finding{15, "Low supplier reliability - consider backup suppliers"}, true
	}
	return finding{}, false
}

func checkDefectRate(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.defectRate > 0.05 {
		return finding{10, "High defect rate - quality improvements needed"}, true
	}
	return finding{}, false
}

func checkCapacity(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	switch {
	case r.capacityUtilization > 0.95:
		return finding{8, "Operating at maximum capacity - scalability limited"}, true
	case r.capacityUtilization < 0.60:
		return finding{0, "Low capacity utilization - fixed costs not optimized"}, true
	}
	return finding{}, false
}

// 財務チェックは financial グループが指定された場合のみ。

func checkBadDebt(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasFinancial && r.badDebtRate > 0.03 {
		return finding{10, "High bad debt rate - tighten credit policy"}, true
	}
	return finding{}, false
}

func checkWorkingCapital(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasFinancial && r.workingCapitalRatio > 0.30 {
		return finding{8, "High working capital requirement strains cash flow"}, true
	}
	return finding{}, false
}

func checkCurrencyRisk(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasFinancial && r.currencyRisk == "high" {
		return finding{12, "High currency risk - consider hedging strategies"}, true
	}
	return finding{}, false
}

func checkCreditPolicy(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasFinancial && r.creditPolicy == "lenient" {
		return finding{0, "Lenient credit policy increases sales but raises risk"}, true
	}
	return finding{}, false
}

// 市場チェックは market グループが指定された場合のみ。

func checkRecession(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasMarket && r.gdpGrowth < 0 {
		return finding{15, "Economic recession conditions - demand highly uncertain"}, true
	}
	return finding{}, false
}

func checkInflation(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasMarket && r.inflationRate > 0.10 {
		return finding{10, "High inflation erodes purchasing power"}, true
	}
	return finding{}, false
}

func checkConsumerConfidence(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasMarket && r.consumerConfidence < 80 {
		return finding{12, "Low consumer confidence dampens demand"}, true
	}
	return finding{}, false
}

func checkRegulatory(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasMarket && (r.regulatoryEnvironment == "strict" || r.regulatoryEnvironment == "changing") {
		return finding{8, "Regulatory uncertainty increases compliance risks"}, true
	}
	return finding{}, false
}

func checkSupplyChain(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasMarket && (r.supplyChainRisk == "critical" || r.supplyChainRisk == "high") {
		return finding{15, "Supply chain disruptions threaten operations"}, true
	}
	return finding{}, false
}

func checkTechnologyDisruption(_ models.ScenarioOutcome, r resolvedFactors) (finding, bool) {
	if r.hasMarket && r.technologyDisruption == "disruptive" {
		return finding{0, "Disruptive technology - rapid adaptation required"}, true
	}
	return finding{}, false
}

func checkMargin(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	switch {
	case o.Margin < 10:
		return finding{15, "CRITICAL: Very low profit margin - pricing not sustainable"}, true
	case o.Margin < 20:
		return finding{8, "Low profit margin - limited room for cost increases"}, true
	}
	return finding{}, false
}

func checkProfitChange(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	switch {
	case o.ProfitChange < -20:
		return finding{25, "CRITICAL: Major profit decline - strategy not viable"}, true
	case o.ProfitChange < -10:
		return finding{15, "Significant profit decline - reconsider strategy"}, true
	}
	return finding{}, false
}

func checkCashFlow(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	switch {
	case o.CashFlow < 0:
		return finding{20, "NEGATIVE CASH FLOW - immediate liquidity concerns"}, true
	case o.CashFlow < o.Revenue*0.10:
		return finding{10, "Tight cash flow - monitor working capital"}, true
	}
	return finding{}, false
}

func checkROI(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	if o.ROI < 10 {
		return finding{12, "Low ROI - investment returns below expectations"}, true
	}
	return finding{}, false
}

func checkServiceLevel(o models.ScenarioOutcome, _ resolvedFactors) (finding, bool) {
	if o.ServiceLevel < 90 {
		return finding{10, "Low service level - customer satisfaction at risk"}, true
	}
	return finding{}, false
}

// GenerateRecommendation はチェックリストで結果を評価し、信頼度・リスクレベル・推奨文・警告（最大8件）を返します。
func GenerateRecommendation(outcome models.ScenarioOutcome, factors models.AllFactors) models.AIRecommendation {
	r := resolveFactors(factors)

	confidence := baseConfidence
	var warnings []string
	for _, check := range riskChecklist {
		if f, ok := check(outcome, r); ok {
			confidence -= f.penalty
			warnings = append(warnings, f.warning)
		}
	}

	// リスク判定とベスト判定はクランプ前の信頼度と全警告数で行う
	riskLevel := models.LevelLow
	switch {
	case confidence < 50 || outcome.ProfitChange < -20 || outcome.CashFlow < 0:
		riskLevel = models.LevelHigh
	case confidence < 70 || outcome.ProfitChange < 0 || len(warnings) > 5:
		riskLevel = models.LevelMedium
	}

	var recommendation string
	switch {
	case outcome.ProfitChange > 20 && outcome.StockoutRisk == models.LevelLow && outcome.CashFlow > 0 && confidence > 75:
		recommendation = recommendationExcellent
	case outcome.ProfitChange > 10 && outcome.CashFlow > 0 && confidence > 65:
		recommendation = recommendationGood
	case outcome.ProfitChange > 0 && confidence > 55:
		recommendation = recommendationModerate
	case outcome.ProfitChange > -10 && confidence > 50:
		recommendation = recommendationRisky
	default:
		recommendation = recommendationHighRisk
	}

	if outcome.StockoutRisk == models.LevelHigh {
		recommendation += adviceStockout
	}
	if outcome.CashFlow < 0 {
		recommendation += adviceCashFlow
	}
	if outcome.Margin < 15 {
		recommendation += adviceMargin
	}

	bestScenario := outcome.ProfitChange > 15 &&
		outcome.StockoutRisk == models.LevelLow &&
		outcome.CashFlow > outcome.Revenue*0.15 &&
		confidence > 80 &&
		len(warnings) < 3

	if len(warnings) > maxWarnings {
		warnings = warnings[:maxWarnings]
	}
	if warnings == nil {
		warnings = []string{}
	}

	return models.AIRecommendation{
		Confidence:     math.Max(minConfidence, math.Min(maxConfidence, confidence)),
		RiskLevel:      riskLevel,
		Recommendation: recommendation,
		Warnings:       warnings,
		BestScenario:   bestScenario,
	}
}
