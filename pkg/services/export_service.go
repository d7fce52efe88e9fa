package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"scenario-sim-api/pkg/models"
)

const (
	scenariosSheet  = "Scenarios"
	comparisonSheet = "Comparison"
)

var scenarioColumns = []interface{}{
	"ID", "Name", "Product", "Preset", "Created At",
	"Revenue", "Revenue Change %", "Profit", "Profit Change %", "Margin %", "ROI %",
	"Units Sold", "Demand Change %", "Inventory Level", "Stockout Risk", "Overstock Risk",
	"Carrying Cost", "Ordering Cost", "Service Level %", "Lead Time (days)", "Cash Flow",
	"Break-even Units", "Effective Price", "Total Cost",
	"Confidence", "Risk Level", "Best Scenario", "Recommendation", "Warnings",
}

// ExportService は保存済みシナリオをExcelブックに書き出します。
type ExportService struct {
	logger zerolog.Logger
}

// NewExportService は新しいExportServiceを生成します。
func NewExportService(logger zerolog.Logger) *ExportService {
	return &ExportService{
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// WriteWorkbook は "Scenarios" と "Comparison" の2シートを持つブックを w に書き込みます。
func (s *ExportService) WriteWorkbook(w io.Writer, scenarios []models.Scenario, comparison models.ComparisonResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scenariosSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(comparisonSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeRow(f, scenariosSheet, 1, scenarioColumns); err != nil {
		return err
	}
	for i, sc := range scenarios {
		if err := writeRow(f, scenariosSheet, i+2, scenarioRow(sc)); err != nil {
			return err
		}
	}

	if err := writeComparison(f, comparison); err != nil {
		return err
	}

	for _, sheet := range []string{scenariosSheet, comparisonSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Debug().Int("scenarios", len(scenarios)).Msg("Workbook exported")
	return nil
}

func scenarioRow(sc models.Scenario) []interface{} {
	o, r := sc.Outcome, sc.Recommendation
	return []interface{}{
		sc.ID, sc.Name, sc.Product.Name, sc.PresetID, sc.CreatedAt.Format("2006-01-02 15:04:05"),
		o.Revenue, o.RevenueChange, o.Profit, o.ProfitChange, o.Margin, o.ROI,
		o.UnitsSold, o.DemandChange, o.InventoryLevel, string(o.StockoutRisk), string(o.OverstockRisk),
		o.CarryingCost, o.OrderingCost, o.ServiceLevel, o.LeadTimeImpact, o.CashFlow,
		o.BreakEvenPoint, o.EffectivePrice, o.TotalCost,
		r.Confidence, string(r.RiskLevel), r.BestScenario, r.Recommendation, strings.Join(r.Warnings, "\n"),
	}
}

func writeComparison(f *excelize.File, c models.ComparisonResult) error {
	names := make(map[string]string, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		names[sc.ID] = sc.Name
	}

	row := 1
	if err := writeRow(f, comparisonSheet, row, []interface{}{"Name", "Revenue (k)", "Profit (k)", "Units", "Margin %", "Risk"}); err != nil {
		return err
	}
	for _, point := range c.Chart {
		row++
		if err := writeRow(f, comparisonSheet, row, []interface{}{point.Name, point.Revenue, point.Profit, point.Units, point.Margin, point.Risk}); err != nil {
			return err
		}
	}

	row += 2
	summary := [][]interface{}{
		{"Best by revenue", names[c.BestByRevenue]},
		{"Best by profit", names[c.BestByProfit]},
		{"Best by ROI", names[c.BestByROI]},
		{"Lowest risk", names[c.LowestRisk]},
	}
	for _, line := range summary {
		if err := writeRow(f, comparisonSheet, row, line); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
