package services

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_WriteWorkbook(t *testing.T) {
	store := NewScenarioStore(0, zerolog.Nop())
	for _, name := range []string{"Baseline", "Price Cut"} {
		sc := namedScenario(name)
		sc.Outcome = CalculateScenarioOutcome(sc.Product, sc.Factors)
		sc.Recommendation = GenerateRecommendation(sc.Outcome, sc.Factors)
		store.Add("s", sc)
	}
	scenarios := store.List("s")
	comparison := CompareScenarios(scenarios, 5)

	var buf bytes.Buffer
	svc := NewExportService(zerolog.Nop())
	require.NoError(t, svc.WriteWorkbook(&buf, scenarios, comparison))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Scenarios", "Comparison"}, f.GetSheetList())

	rows, err := f.GetRows("Scenarios")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, len(scenarioColumns), len(rows[0]))
	assert.Equal(t, scenarios[0].ID, rows[1][0])
	assert.Equal(t, "Baseline", rows[1][1])
	assert.Equal(t, "11576", rows[1][5])

	comparisonRows, err := f.GetRows("Comparison")
	require.NoError(t, err)
	assert.Equal(t, "Name", comparisonRows[0][0])
	assert.Equal(t, "Baseline...", comparisonRows[1][0])

	var summary []string
	for _, row := range comparisonRows {
		if len(row) == 2 {
			summary = append(summary, row[0])
		}
	}
	assert.Equal(t, []string{"Best by revenue", "Best by profit", "Best by ROI", "Lowest risk"}, summary)
}

func TestExportService_Empty(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService(zerolog.Nop())
	require.NoError(t, svc.WriteWorkbook(&buf, nil, CompareScenarios(nil, 5)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Scenarios")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
