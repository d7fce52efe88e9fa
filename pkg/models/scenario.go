package models

import "time"

// Product はシナリオ計算の対象となる商品を表します。
type Product struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	CurrentPrice     float64 `json:"currentPrice"`
	RecommendedPrice float64 `json:"recommendedPrice"`
	Cost             float64 `json:"cost"`
	CurrentDemand    float64 `json:"currentDemand"` // baseline unit volume
	Category         string  `json:"category"`
}

// Level は low/medium/high の3段階評価です。
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// HolidayEffect は祝日・イベントの需要効果です。
type HolidayEffect string

const (
	HolidayNone  HolidayEffect = "none"
	HolidayMinor HolidayEffect = "minor"
	HolidayMajor HolidayEffect = "major"
)

// CompetitorPromotion は競合の販促強度です。
type CompetitorPromotion string

const (
	CompetitorPromotionNone     CompetitorPromotion = "none"
	CompetitorPromotionLight    CompetitorPromotion = "light"
	CompetitorPromotionModerate CompetitorPromotion = "moderate"
	CompetitorPromotionHeavy    CompetitorPromotion = "heavy"
)

// PricingFactors は価格関連の要因です。パーセントは数値のまま（15 = 15%）。
type PricingFactors struct {
	PriceChange            float64  `json:"priceChange" yaml:"priceChange"`         // -30 to +30 percent
	Discount               float64  `json:"discount" yaml:"discount"`               // 0 to 50 percent
	CostVariation          float64  `json:"costVariation" yaml:"costVariation"`     // -20 to +20 percent
	PriceElasticity        float64  `json:"priceElasticity" yaml:"priceElasticity"` // -3.0 to -0.5
	CrossPriceElasticity   *float64 `json:"crossPriceElasticity,omitempty" yaml:"crossPriceElasticity,omitempty"`
	CannibalizationRate    *float64 `json:"cannibalizationRate,omitempty" yaml:"cannibalizationRate,omitempty"`
	BundleEffect           *float64 `json:"bundleEffect,omitempty" yaml:"bundleEffect,omitempty"`
	CompetitiveResponseLag *float64 `json:"competitiveResponseLag,omitempty" yaml:"competitiveResponseLag,omitempty"` // weeks, informational
	PsychologicalThreshold string   `json:"psychologicalThreshold,omitempty" yaml:"psychologicalThreshold,omitempty"` // none / below / above
}

// DemandFactors は需要ドライバーと顧客指標です。
type DemandFactors struct {
	MarketingSpend          float64       `json:"marketingSpend" yaml:"marketingSpend"`
	PromotionIntensity      float64       `json:"promotionIntensity" yaml:"promotionIntensity"` // 0 to 10
	SeasonalMultiplier      float64       `json:"seasonalMultiplier" yaml:"seasonalMultiplier"` // 0.5 to 2.0
	HolidayEffect           HolidayEffect `json:"holidayEffect" yaml:"holidayEffect"`
	WeatherImpact           float64       `json:"weatherImpact" yaml:"weatherImpact"` // -1 to +1
	CustomerAcquisitionCost *float64      `json:"customerAcquisitionCost,omitempty" yaml:"customerAcquisitionCost,omitempty"`
	CustomerLifetimeValue   *float64      `json:"customerLifetimeValue,omitempty" yaml:"customerLifetimeValue,omitempty"`
	ChurnRate               *float64      `json:"churnRate,omitempty" yaml:"churnRate,omitempty"`
	RepeatPurchaseRate      *float64      `json:"repeatPurchaseRate,omitempty" yaml:"repeatPurchaseRate,omitempty"`
	ChannelMix              string        `json:"channelMix,omitempty" yaml:"channelMix,omitempty"`
	CustomerSegment         string        `json:"customerSegment,omitempty" yaml:"customerSegment,omitempty"`
	ExternalEvent           string        `json:"externalEvent,omitempty" yaml:"externalEvent,omitempty"`
}

// CompetitiveFactors は競合の動きと市場構造です。
type CompetitiveFactors struct {
	CompetitorPriceChange float64             `json:"competitorPriceChange" yaml:"competitorPriceChange"`
	CompetitorPromotion   CompetitorPromotion `json:"competitorPromotion" yaml:"competitorPromotion"`
	MarketShareGoal       float64             `json:"marketShareGoal" yaml:"marketShareGoal"`
	MarketConcentration   string              `json:"marketConcentration,omitempty" yaml:"marketConcentration,omitempty"`
	BrandStrength         *float64            `json:"brandStrength,omitempty" yaml:"brandStrength,omitempty"`
	SwitchingCosts        string              `json:"switchingCosts,omitempty" yaml:"switchingCosts,omitempty"`
	NetworkEffects        string              `json:"networkEffects,omitempty" yaml:"networkEffects,omitempty"`
	MarketPosition        string              `json:"marketPosition,omitempty" yaml:"marketPosition,omitempty"`
}

// InventoryFactors は在庫補充ポリシーの入力です。
type InventoryFactors struct {
	OrderQuantity        float64  `json:"orderQuantity" yaml:"orderQuantity"` // percent of current
	LeadTime             float64  `json:"leadTime" yaml:"leadTime"`           // percent of current
	SafetyStockLevel     Level    `json:"safetyStockLevel" yaml:"safetyStockLevel"`
	DemandVariability    Level    `json:"demandVariability" yaml:"demandVariability"`
	EOQModel             string   `json:"eoqModel,omitempty" yaml:"eoqModel,omitempty"`
	ReorderStrategy      string   `json:"reorderStrategy,omitempty" yaml:"reorderStrategy,omitempty"`
	ABCClassification    string   `json:"abcClassification,omitempty" yaml:"abcClassification,omitempty"`
	TurnoverTarget       *float64 `json:"turnoverTarget,omitempty" yaml:"turnoverTarget,omitempty"`
	SupplierReliability  *float64 `json:"supplierReliability,omitempty" yaml:"supplierReliability,omitempty"`
	SourcingStrategy     string   `json:"sourcingStrategy,omitempty" yaml:"sourcingStrategy,omitempty"`
	ObsolescenceRisk     string   `json:"obsolescenceRisk,omitempty" yaml:"obsolescenceRisk,omitempty"`
	WarehouseUtilization *float64 `json:"warehouseUtilization,omitempty" yaml:"warehouseUtilization,omitempty"`
}

// OperationalFactors はサービスレベルと運用コストのパラメータです。
type OperationalFactors struct {
	ServiceLevelTarget  float64  `json:"serviceLevelTarget" yaml:"serviceLevelTarget"` // 90 to 99.9 percent
	StockoutCostImpact  Level    `json:"stockoutCostImpact" yaml:"stockoutCostImpact"`
	HoldingCostRate     float64  `json:"holdingCostRate" yaml:"holdingCostRate"` // 15 to 35 percent
	OrderProcessingCost *float64 `json:"orderProcessingCost,omitempty" yaml:"orderProcessingCost,omitempty"`
	DefectRate          *float64 `json:"defectRate,omitempty" yaml:"defectRate,omitempty"`
	CapacityUtilization *float64 `json:"capacityUtilization,omitempty" yaml:"capacityUtilization,omitempty"`
}

// FinancialFactors は任意項目です。率は小数（0.12 = 12%）。
type FinancialFactors struct {
	PaymentTerms         string   `json:"paymentTerms,omitempty" yaml:"paymentTerms,omitempty"`
	EarlyPaymentDiscount *float64 `json:"earlyPaymentDiscount,omitempty" yaml:"earlyPaymentDiscount,omitempty"`
	WorkingCapitalRatio  *float64 `json:"workingCapitalRatio,omitempty" yaml:"workingCapitalRatio,omitempty"`
	CostOfCapital        *float64 `json:"costOfCapital,omitempty" yaml:"costOfCapital,omitempty"`
	CreditPolicy         string   `json:"creditPolicy,omitempty" yaml:"creditPolicy,omitempty"`
	BadDebtRate          *float64 `json:"badDebtRate,omitempty" yaml:"badDebtRate,omitempty"`
	TaxRate              *float64 `json:"taxRate,omitempty" yaml:"taxRate,omitempty"`
	CurrencyRisk         string   `json:"currencyRisk,omitempty" yaml:"currencyRisk,omitempty"`
}

// MarketFactors は任意項目のマクロ環境要因です。消費者信頼感は100を基準とする指数。
type MarketFactors struct {
	GDPGrowth             *float64 `json:"gdpGrowth,omitempty" yaml:"gdpGrowth,omitempty"`
	InflationRate         *float64 `json:"inflationRate,omitempty" yaml:"inflationRate,omitempty"`
	ConsumerConfidence    *float64 `json:"consumerConfidence,omitempty" yaml:"consumerConfidence,omitempty"`
	MarketGrowthRate      *float64 `json:"marketGrowthRate,omitempty" yaml:"marketGrowthRate,omitempty"`
	RegulatoryEnvironment string   `json:"regulatoryEnvironment,omitempty" yaml:"regulatoryEnvironment,omitempty"`
	TechnologyDisruption  string   `json:"technologyDisruption,omitempty" yaml:"technologyDisruption,omitempty"`
	SupplyChainRisk       string   `json:"supplyChainRisk,omitempty" yaml:"supplyChainRisk,omitempty"`
	ESGImpact             string   `json:"esgImpact,omitempty" yaml:"esgImpact,omitempty"`
}

// AllFactors はWhat-ifシミュレーションの全入力です。Financial と Market は省略可能。
type AllFactors struct {
	Pricing     PricingFactors     `json:"pricing" yaml:"pricing"`
	Demand      DemandFactors      `json:"demand" yaml:"demand"`
	Competitive CompetitiveFactors `json:"competitive" yaml:"competitive"`
	Inventory   InventoryFactors   `json:"inventory" yaml:"inventory"`
	Operational OperationalFactors `json:"operational" yaml:"operational"`
	Financial   *FinancialFactors  `json:"financial,omitempty" yaml:"financial,omitempty"`
	Market      *MarketFactors     `json:"market,omitempty" yaml:"market,omitempty"`
}

// ScenarioOutcome は要因セットから予測される業績です。
type ScenarioOutcome struct {
	Revenue        float64 `json:"revenue"`
	RevenueChange  float64 `json:"revenueChange"` // percent
	Profit         float64 `json:"profit"`
	ProfitChange   float64 `json:"profitChange"` // percent
	Margin         float64 `json:"margin"`       // percent
	ROI            float64 `json:"roi"`          // percent
	UnitsSold      float64 `json:"unitsSold"`
	DemandChange   float64 `json:"demandChange"` // percent
	InventoryLevel float64 `json:"inventoryLevel"`
	StockoutRisk   Level   `json:"stockoutRisk"`
	OverstockRisk  Level   `json:"overstockRisk"`
	CarryingCost   float64 `json:"carryingCost"`
	OrderingCost   float64 `json:"orderingCost"`
	ServiceLevel   float64 `json:"serviceLevel"`   // percent
	LeadTimeImpact float64 `json:"leadTimeImpact"` // days
	CashFlow       float64 `json:"cashFlow"`
	BreakEvenPoint float64 `json:"breakEvenPoint"` // units
	EffectivePrice float64 `json:"effectivePrice"`
	TotalCost      float64 `json:"totalCost"`
}

// AIRecommendation は ScenarioOutcome に対する評価結果です。
type AIRecommendation struct {
	Confidence     float64  `json:"confidence"` // 30..98
	RiskLevel      Level    `json:"riskLevel"`
	Recommendation string   `json:"recommendation"`
	Warnings       []string `json:"warnings"`
	BestScenario   bool     `json:"bestScenario"`
}

// Scenario はセッションに保存されたシミュレーション結果です。
type Scenario struct {
	ID             string           `json:"id"`
	SessionID      string           `json:"sessionId"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Product        Product          `json:"product"`
	Factors        AllFactors       `json:"factors"`
	Outcome        ScenarioOutcome  `json:"outcome"`
	Recommendation AIRecommendation `json:"recommendation"`
	CreatedAt      time.Time        `json:"createdAt"`
	IsPreset       bool             `json:"isPreset"`
	PresetID       string           `json:"presetId,omitempty"`
}

// PricingOverrides はプリセットが上書きする価格要因です。nil と空文字は未指定です。
type PricingOverrides struct {
	PriceChange            *float64 `json:"priceChange,omitempty" yaml:"priceChange,omitempty"`
	Discount               *float64 `json:"discount,omitempty" yaml:"discount,omitempty"`
	CostVariation          *float64 `json:"costVariation,omitempty" yaml:"costVariation,omitempty"`
	PriceElasticity        *float64 `json:"priceElasticity,omitempty" yaml:"priceElasticity,omitempty"`
	CrossPriceElasticity   *float64 `json:"crossPriceElasticity,omitempty" yaml:"crossPriceElasticity,omitempty"`
	CannibalizationRate    *float64 `json:"cannibalizationRate,omitempty" yaml:"cannibalizationRate,omitempty"`
	BundleEffect           *float64 `json:"bundleEffect,omitempty" yaml:"bundleEffect,omitempty"`
	CompetitiveResponseLag *float64 `json:"competitiveResponseLag,omitempty" yaml:"competitiveResponseLag,omitempty"`
	PsychologicalThreshold string   `json:"psychologicalThreshold,omitempty" yaml:"psychologicalThreshold,omitempty"`
}

// DemandOverrides はプリセットが上書きする需要要因です。
type DemandOverrides struct {
	MarketingSpend          *float64      `json:"marketingSpend,omitempty" yaml:"marketingSpend,omitempty"`
	PromotionIntensity      *float64      `json:"promotionIntensity,omitempty" yaml:"promotionIntensity,omitempty"`
	SeasonalMultiplier      *float64      `json:"seasonalMultiplier,omitempty" yaml:"seasonalMultiplier,omitempty"`
	HolidayEffect           HolidayEffect `json:"holidayEffect,omitempty" yaml:"holidayEffect,omitempty"`
	WeatherImpact           *float64      `json:"weatherImpact,omitempty" yaml:"weatherImpact,omitempty"`
	CustomerAcquisitionCost *float64      `json:"customerAcquisitionCost,omitempty" yaml:"customerAcquisitionCost,omitempty"`
	CustomerLifetimeValue   *float64      `json:"customerLifetimeValue,omitempty" yaml:"customerLifetimeValue,omitempty"`
	ChurnRate               *float64      `json:"churnRate,omitempty" yaml:"churnRate,omitempty"`
	RepeatPurchaseRate      *float64      `json:"repeatPurchaseRate,omitempty" yaml:"repeatPurchaseRate,omitempty"`
	ChannelMix              string        `json:"channelMix,omitempty" yaml:"channelMix,omitempty"`
	CustomerSegment         string        `json:"customerSegment,omitempty" yaml:"customerSegment,omitempty"`
	ExternalEvent           string        `json:"externalEvent,omitempty" yaml:"externalEvent,omitempty"`
}

// CompetitiveOverrides はプリセットが上書きする競合要因です。
type CompetitiveOverrides struct {
	CompetitorPriceChange *float64            `json:"competitorPriceChange,omitempty" yaml:"competitorPriceChange,omitempty"`
	CompetitorPromotion   CompetitorPromotion `json:"competitorPromotion,omitempty" yaml:"competitorPromotion,omitempty"`
	MarketShareGoal       *float64            `json:"marketShareGoal,omitempty" yaml:"marketShareGoal,omitempty"`
	MarketConcentration   string              `json:"marketConcentration,omitempty" yaml:"marketConcentration,omitempty"`
	BrandStrength         *float64            `json:"brandStrength,omitempty" yaml:"brandStrength,omitempty"`
	SwitchingCosts        string              `json:"switchingCosts,omitempty" yaml:"switchingCosts,omitempty"`
	NetworkEffects        string              `json:"networkEffects,omitempty" yaml:"networkEffects,omitempty"`
	MarketPosition        string              `json:"marketPosition,omitempty" yaml:"marketPosition,omitempty"`
}

// InventoryOverrides はプリセットが上書きする在庫要因です。
type InventoryOverrides struct {
	OrderQuantity        *float64 `json:"orderQuantity,omitempty" yaml:"orderQuantity,omitempty"`
	LeadTime             *float64 `json:"leadTime,omitempty" yaml:"leadTime,omitempty"`
	SafetyStockLevel     Level    `json:"safetyStockLevel,omitempty" yaml:"safetyStockLevel,omitempty"`
	DemandVariability    Level    `json:"demandVariability,omitempty" yaml:"demandVariability,omitempty"`
	EOQModel             string   `json:"eoqModel,omitempty" yaml:"eoqModel,omitempty"`
	ReorderStrategy      string   `json:"reorderStrategy,omitempty" yaml:"reorderStrategy,omitempty"`
	ABCClassification    string   `json:"abcClassification,omitempty" yaml:"abcClassification,omitempty"`
	TurnoverTarget       *float64 `json:"turnoverTarget,omitempty" yaml:"turnoverTarget,omitempty"`
	SupplierReliability  *float64 `json:"supplierReliability,omitempty" yaml:"supplierReliability,omitempty"`
	SourcingStrategy     string   `json:"sourcingStrategy,omitempty" yaml:"sourcingStrategy,omitempty"`
	ObsolescenceRisk     string   `json:"obsolescenceRisk,omitempty" yaml:"obsolescenceRisk,omitempty"`
	WarehouseUtilization *float64 `json:"warehouseUtilization,omitempty" yaml:"warehouseUtilization,omitempty"`
}

// OperationalOverrides はプリセットが上書きする運用要因です。
type OperationalOverrides struct {
	ServiceLevelTarget  *float64 `json:"serviceLevelTarget,omitempty" yaml:"serviceLevelTarget,omitempty"`
	StockoutCostImpact  Level    `json:"stockoutCostImpact,omitempty" yaml:"stockoutCostImpact,omitempty"`
	HoldingCostRate     *float64 `json:"holdingCostRate,omitempty" yaml:"holdingCostRate,omitempty"`
	OrderProcessingCost *float64 `json:"orderProcessingCost,omitempty" yaml:"orderProcessingCost,omitempty"`
	DefectRate          *float64 `json:"defectRate,omitempty" yaml:"defectRate,omitempty"`
	CapacityUtilization *float64 `json:"capacityUtilization,omitempty" yaml:"capacityUtilization,omitempty"`
}

// PartialFactors はプリセットの上書き内容です。指定されたグループの、指定された項目だけがマージされます。
type PartialFactors struct {
	Pricing     *PricingOverrides     `json:"pricing,omitempty" yaml:"pricing,omitempty"`
	Demand      *DemandOverrides      `json:"demand,omitempty" yaml:"demand,omitempty"`
	Competitive *CompetitiveOverrides `json:"competitive,omitempty" yaml:"competitive,omitempty"`
	Inventory   *InventoryOverrides   `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Operational *OperationalOverrides `json:"operational,omitempty" yaml:"operational,omitempty"`
	Financial   *FinancialFactors     `json:"financial,omitempty" yaml:"financial,omitempty"`
	Market      *MarketFactors        `json:"market,omitempty" yaml:"market,omitempty"`
}

// PresetScenario はプリセットライブラリの1件です。
type PresetScenario struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Emoji       string         `json:"emoji" yaml:"emoji"`
	Color       string         `json:"color" yaml:"color"`
	Factors     PartialFactors `json:"factors" yaml:"factors"`
}

// ComparisonResult は評価軸ごとの最良シナリオIDをまとめます。
type ComparisonResult struct {
	Scenarios     []Scenario          `json:"scenarios"`
	Chart         []ScenarioChartData `json:"chart"`
	BestByRevenue string              `json:"bestByRevenue"` // scenario id
	BestByProfit  string              `json:"bestByProfit"`
	BestByROI     string              `json:"bestByRoi"`
	LowestRisk    string              `json:"lowestRisk"`
}

// ScenarioChartData は比較チャートの1行です（金額は千単位）。
type ScenarioChartData struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Units   float64 `json:"units"`
	Margin  float64 `json:"margin"`
	Risk    int     `json:"risk"` // 1 low, 2 medium, 3 high
}
