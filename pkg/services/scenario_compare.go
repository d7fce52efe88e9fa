package services

import (
	"scenario-sim-api/pkg/models"
)

const chartNameLength = 15

var riskRanks = map[models.Level]int{
	models.LevelLow:    1,
	models.LevelMedium: 2,
	models.LevelHigh:   3,
}

// CompareScenarios は直近 window 件のシナリオを比較します。
// 同値の場合は先に保存されたシナリオを優先します。最低リスクは信頼度の高い方を優先します。
func CompareScenarios(scenarios []models.Scenario, window int) models.ComparisonResult {
	if window > 0 && len(scenarios) > window {
		scenarios = scenarios[len(scenarios)-window:]
	}

	result := models.ComparisonResult{
		Scenarios: make([]models.Scenario, len(scenarios)),
		Chart:     make([]models.ScenarioChartData, 0, len(scenarios)),
	}
	copy(result.Scenarios, scenarios)
	if len(scenarios) == 0 {
		return result
	}

	bestRevenue, bestProfit, bestROI, lowestRisk := scenarios[0], scenarios[0], scenarios[0], scenarios[0]
	for _, sc := range scenarios {
		result.Chart = append(result.Chart, chartRow(sc))

		if sc.Outcome.Revenue > bestRevenue.Outcome.Revenue {
			bestRevenue = sc
		}
		if sc.Outcome.Profit > bestProfit.Outcome.Profit {
			bestProfit = sc
		}
		if sc.Outcome.ROI > bestROI.Outcome.ROI {
			bestROI = sc
		}
		rank, lowest := riskRank(sc.Recommendation.RiskLevel), riskRank(lowestRisk.Recommendation.RiskLevel)
		if rank < lowest || (rank == lowest && sc.Recommendation.Confidence > lowestRisk.Recommendation.Confidence) {
			lowestRisk = sc
		}
	}

	result.BestByRevenue = bestRevenue.ID
	result.BestByProfit = bestProfit.ID
	result.BestByROI = bestROI.ID
	result.LowestRisk = lowestRisk.ID
	return result
}

func chartRow(sc models.Scenario) models.ScenarioChartData {
	return models.ScenarioChartData{
		Name:    chartName(sc.Name),
		Revenue: sc.Outcome.Revenue / 1000,
		Profit:  sc.Outcome.Profit / 1000,
		Units:   sc.Outcome.UnitsSold,
		Margin:  sc.Outcome.Margin,
		Risk:    riskRank(sc.Recommendation.RiskLevel),
	}
}

// chartName は先頭15文字に "..." を付けます（短い名前にも付けます）。
func chartName(name string) string {
	runes := []rune(name)
	if len(runes) > chartNameLength {
		runes = runes[:chartNameLength]
	}
	return string(runes) + "..."
}

// 未知のリスクレベルは high 扱い
func riskRank(level models.Level) int {
	if rank, ok := riskRanks[level]; ok {
		return rank
	}
	return riskRanks[models.LevelHigh]
}
