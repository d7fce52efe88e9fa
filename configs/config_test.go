package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenario-sim-api/pkg/models"
	"scenario-sim-api/pkg/services"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("API_KEY", "secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "pass")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("PRESETS_FILE", "configs/presets.yaml")
	t.Setenv("MAX_SCENARIOS_PER_SESSION", "10")
	t.Setenv("COMPARISON_WINDOW", "3")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "pass", cfg.AdminPassword)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "configs/presets.yaml", cfg.PresetsFile)
	assert.Equal(t, 10, cfg.MaxScenariosPerSession)
	assert.Equal(t, 3, cfg.ComparisonWindow)
}

func TestLoadConfigDefaults(t *testing.T) {
	// 環境変数をクリア
	for _, v := range []string{
		"PORT", "ENVIRONMENT", "API_KEY", "LOG_LEVEL", "LOG_PRETTY",
		"PRESETS_FILE", "CATALOG_FILE", "MAX_SCENARIOS_PER_SESSION", "COMPARISON_WINDOW",
	} {
		t.Setenv(v, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Empty(t, cfg.PresetsFile)
	assert.Equal(t, 50, cfg.MaxScenariosPerSession)
	assert.Equal(t, 5, cfg.ComparisonWindow)
}

func TestLoadConfigInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_SCENARIOS_PER_SESSION", "many")
	t.Setenv("COMPARISON_WINDOW", "-2")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, 50, cfg.MaxScenariosPerSession)
	assert.Equal(t, 5, cfg.ComparisonWindow)
	assert.False(t, cfg.LogPretty)
}

const presetYAML = `
presets:
  - id: flash-sale
    name: Flash Sale
    description: Short deep discount
    emoji: "⚡"
    color: from-red-500 to-red-600
    factors:
      pricing:
        priceChange: 0
        discount: 25
        costVariation: 0
        priceElasticity: -2.0
      demand:
        marketingSpend: 5000
        promotionIntensity: 9
        seasonalMultiplier: 1.0
        holidayEffect: none
        weatherImpact: 0
        churnRate: 0.1
      market:
        gdpGrowth: -0.01
  - id: " spaced "
`

func TestParsePresets(t *testing.T) {
	presets, err := ParsePresets([]byte(presetYAML))
	require.NoError(t, err)
	require.Len(t, presets, 2)

	p := presets[0]
	assert.Equal(t, "flash-sale", p.ID)
	assert.Equal(t, "Flash Sale", p.Name)
	require.NotNil(t, p.Factors.Pricing)
	assert.Equal(t, 25.0, *p.Factors.Pricing.Discount)
	assert.Equal(t, -2.0, *p.Factors.Pricing.PriceElasticity)
	require.NotNil(t, p.Factors.Demand)
	assert.Equal(t, models.HolidayNone, p.Factors.Demand.HolidayEffect)
	require.NotNil(t, p.Factors.Demand.ChurnRate)
	assert.Equal(t, 0.1, *p.Factors.Demand.ChurnRate)
	assert.Nil(t, p.Factors.Demand.RepeatPurchaseRate)
	require.NotNil(t, p.Factors.Market)
	assert.Equal(t, -0.01, *p.Factors.Market.GDPGrowth)
	assert.Nil(t, p.Factors.Inventory)

	// IDは前後の空白を除去し、名前がなければIDを使う
	assert.Equal(t, "spaced", presets[1].ID)
	assert.Equal(t, "spaced", presets[1].Name)
}

func TestParsePresetsValidation(t *testing.T) {
	_, err := ParsePresets([]byte("presets:\n  - name: no id\n"))
	assert.ErrorContains(t, err, "id is required")

	_, err = ParsePresets([]byte("presets:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicate id")

	_, err = ParsePresets([]byte("presets: [unclosed"))
	assert.Error(t, err)
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets("")
	require.NoError(t, err)
	assert.Nil(t, presets)

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetYAML), 0o600))

	presets, err = LoadPresets(path)
	require.NoError(t, err)
	assert.Len(t, presets, 2)

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadPresetsExampleFile(t *testing.T) {
	presets, err := LoadPresets("presets.example.yaml")
	require.NoError(t, err)
	require.Len(t, presets, 1)

	p := presets[0]
	assert.Equal(t, "flash-sale", p.ID)
	require.NotNil(t, p.Factors.Pricing)
	assert.Equal(t, 25.0, *p.Factors.Pricing.Discount)
	require.NotNil(t, p.Factors.Demand)
	assert.Equal(t, models.HolidayNone, p.Factors.Demand.HolidayEffect)
	assert.Nil(t, p.Factors.Competitive)
}

func TestParsePresetsPartialGroupKeepsBase(t *testing.T) {
	data := []byte(`presets:
  - id: price-only
    factors:
      pricing:
        priceChange: 10
  - id: promotion-only
    factors:
      demand:
        promotionIntensity: 5
  - id: zero-discount
    factors:
      pricing:
        discount: 0
`)
	presets, err := ParsePresets(data)
	require.NoError(t, err)
	require.Len(t, presets, 3)

	base := services.CreateDefaultFactors()

	priced := services.ApplyPreset(base, presets[0])
	assert.Equal(t, 10.0, priced.Pricing.PriceChange)
	assert.Equal(t, -1.5, priced.Pricing.PriceElasticity)
	assert.InDelta(t, -0.15, services.CalculateFactorImpacts(priced).Price, 1e-12)

	promoted := services.ApplyPreset(base, presets[1])
	assert.Equal(t, 5.0, promoted.Demand.PromotionIntensity)
	assert.Equal(t, 1.0, promoted.Demand.SeasonalMultiplier)
	assert.Equal(t, models.HolidayNone, promoted.Demand.HolidayEffect)
	assert.Equal(t, 0.0, services.CalculateFactorImpacts(promoted).Seasonal)

	// 明示的な0は未指定ではない
	discounted := base
	discounted.Pricing.Discount = 20
	cleared := services.ApplyPreset(discounted, presets[2])
	assert.Equal(t, 0.0, cleared.Pricing.Discount)
	assert.Equal(t, -1.5, cleared.Pricing.PriceElasticity)
}
