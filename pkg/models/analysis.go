package models

// InfluencingFactor は需要変化への個別の寄与です
type InfluencingFactor struct {
	Name   string  `json:"name"`
	Group  string  `json:"group"`  // pricing, demand, competitive, market
	Impact float64 `json:"impact"` // fractional, 0.08 = +8% demand
}

// CalculateRequest はシナリオ計算のリクエストです。
// Product か ProductID のどちらかが必須です。
type CalculateRequest struct {
	Product   *Product    `json:"product,omitempty"`
	ProductID string      `json:"productId,omitempty"`
	Factors   *AllFactors `json:"factors,omitempty"` // nil uses the default factors
}

// CalculateResponse は計算結果と評価をまとめたレスポンスです
type CalculateResponse struct {
	Product        Product             `json:"product"`
	Outcome        ScenarioOutcome     `json:"outcome"`
	Recommendation AIRecommendation    `json:"recommendation"`
	Impacts        []InfluencingFactor `json:"impacts"`
	TotalImpact    float64             `json:"totalImpact"`
}

// RecommendRequest は計算済みの結果を再評価するリクエストです
type RecommendRequest struct {
	Outcome ScenarioOutcome `json:"outcome"`
	Factors AllFactors      `json:"factors"`
}

// SaveScenarioRequest はシナリオ保存リクエストです
type SaveScenarioRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Product     *Product    `json:"product,omitempty"`
	ProductID   string      `json:"productId,omitempty"`
	Factors     *AllFactors `json:"factors,omitempty"`
	PresetID    string      `json:"presetId,omitempty"`
}

// SensitivityRequest は1つの数値要因を [Min, Max] で変化させる感度分析リクエストです
type SensitivityRequest struct {
	Product   *Product    `json:"product,omitempty"`
	ProductID string      `json:"productId,omitempty"`
	Factors   *AllFactors `json:"factors,omitempty"`
	Lever     string      `json:"lever" binding:"required"` // e.g. "priceChange", "marketingSpend"
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Steps     int         `json:"steps"` // 2..50, 0 uses the default
}

// SensitivityPoint は感度分析の1ステップです
type SensitivityPoint struct {
	Value        float64 `json:"value"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	Margin       float64 `json:"margin"`
	UnitsSold    float64 `json:"unitsSold"`
	Confidence   float64 `json:"confidence"`
	RiskLevel    Level   `json:"riskLevel"`
	StockoutRisk Level   `json:"stockoutRisk"`
	BestScenario bool    `json:"bestScenario"`
}

// SensitivityResult は感度分析の結果です
type SensitivityResult struct {
	Lever          string             `json:"lever"`
	Points         []SensitivityPoint `json:"points"`
	BaselineProfit float64            `json:"baselineProfit"`
	ProfitSlope    float64            `json:"profitSlope"`    // profit per unit of lever
	RevenueSlope   float64            `json:"revenueSlope"`   // revenue per unit of lever
	ProfitRSquared float64            `json:"profitRSquared"` // fit of the linear profit model
	BestValue      float64            `json:"bestValue"`      // lever value with the highest profit
	BestProfit     float64            `json:"bestProfit"`
	ProfitSwing    float64            `json:"profitSwing"` // max - min profit across the sweep
	Sensitivity    string             `json:"sensitivity"` // LOW, MEDIUM, HIGH
}
