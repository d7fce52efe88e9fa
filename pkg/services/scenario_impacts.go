package services

import (
	"math"

	"scenario-sim-api/pkg/models"
)

// 要因インパクト関数群。各関数は需要変化率への寄与（0.1 = +10%）を返します。
// スライダー範囲外の入力もそのまま計算し、未知の列挙値はフォールバック値になります。

var (
	psychologicalImpacts = map[string]float64{"below": 0.08, "above": -0.03}
	holidayImpacts       = map[models.HolidayEffect]float64{
		models.HolidayNone:  0,
		models.HolidayMinor: 0.1,
		models.HolidayMajor: 0.3,
	}
	channelImpacts = map[string]float64{
		"online-heavy": 0.12,
		"omnichannel":  0.08,
		"retail-heavy": -0.05,
	}
	segmentImpacts = map[string]float64{
		"premium":          0.15,
		"early-adopters":   0.10,
		"budget-conscious": -0.08,
	}
	externalEventImpacts = map[string]float64{
		"positive-major": 0.25,
		"positive-minor": 0.08,
		"negative-minor": -0.08,
		"negative-major": -0.20,
		"crisis":         -0.45,
	}
	competitorPromotionImpacts = map[models.CompetitorPromotion]float64{
		models.CompetitorPromotionLight:    -0.05,
		models.CompetitorPromotionModerate: -0.12,
		models.CompetitorPromotionHeavy:    -0.25,
	}
	concentrationImpacts = map[string]float64{
		"monopolistic": 0.10,
		"oligopoly":    0.05,
		"fragmented":   -0.08,
	}
	switchingCostImpacts  = map[string]float64{"high": 0.12, "medium": 0.05, "low": -0.03}
	networkEffectImpacts  = map[string]float64{"strong": 0.18, "moderate": 0.08, "weak": 0.03}
	marketPositionImpacts = map[string]float64{"leader": 0.10, "challenger": 0.05, "nicher": 0.03}
	regulatoryImpacts     = map[string]float64{"strict": -0.05, "changing": -0.03}
	techDisruptionImpacts = map[string]float64{"disruptive": 0.15, "high": 0.08, "moderate": 0.03}
	supplyChainImpacts    = map[string]float64{"critical": -0.20, "high": -0.10, "medium": -0.03}
	esgImpacts            = map[string]float64{"positive": 0.08, "negative": -0.05, "critical": -0.12}
)

const (
	// 未指定・未知は "very-low" 扱い
	switchingCostsFallback = -0.06
	// 未指定・未知は "follower" 扱い
	marketPositionFallback = -0.02
)

func lookupImpact[K comparable](table map[K]float64, key K, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

// PriceImpact は価格弾力性による需要変化を計算します。
func PriceImpact(priceChange, elasticity float64) float64 {
	return elasticity * (priceChange / 100)
}

func CrossPriceImpact(crossElasticity, priceChange float64) float64 {
	return crossElasticity * (priceChange / 100) * 0.5
}

// CannibalizationImpact は価格変更の向きに関係なく常にマイナスです。
func CannibalizationImpact(rate, priceChange float64) float64 {
	return -rate * math.Abs(priceChange/100)
}

func BundleImpact(bundleEffect, discount float64) float64 {
	return bundleEffect * (discount / 100)
}

func PsychologicalImpact(threshold string) float64 {
	return lookupImpact(psychologicalImpacts, threshold, 0)
}

// MarketingImpact はマーケティング費用の効果です（収穫逓減: ln(1 + spend/1000) * 0.15）。
func MarketingImpact(spend float64) float64 {
	return math.Log(1+spend/1000) * 0.15
}

func PromotionImpact(intensity float64) float64 {
	return (intensity / 10) * 0.25
}

func ChurnImpact(churnRate float64) float64 {
	return -churnRate * 0.3
}

func RepeatPurchaseImpact(rate float64) float64 {
	return rate * 0.2
}

func CustomerLifetimeValueImpact(clv float64) float64 {
	return math.Log(1+clv/1000) * 0.05
}

func ChannelMixImpact(mix string) float64 {
	return lookupImpact(channelImpacts, mix, 0)
}

func CustomerSegmentImpact(segment string) float64 {
	return lookupImpact(segmentImpacts, segment, 0)
}

func ExternalEventImpact(event string) float64 {
	return lookupImpact(externalEventImpacts, event, 0)
}

// SeasonalImpact は季節係数（1.0 = 通常）を寄与に変換します。
func SeasonalImpact(multiplier float64) float64 {
	return multiplier - 1
}

func HolidayImpact(effect models.HolidayEffect) float64 {
	return lookupImpact(holidayImpacts, effect, 0)
}

func WeatherImpact(impact float64) float64 {
	return impact * 0.15
}

// CompetitorPriceImpact は競合の値上げで自社需要が増える効果です。
func CompetitorPriceImpact(change float64) float64 {
	return -(change / 100) * 0.3
}

func CompetitorPromotionImpact(promotion models.CompetitorPromotion) float64 {
	return lookupImpact(competitorPromotionImpacts, promotion, 0)
}

// BrandStrengthImpact はブランド力0.6を基準とします。
func BrandStrengthImpact(strength float64) float64 {
	return (strength - 0.6) * 0.15
}

func MarketConcentrationImpact(concentration string) float64 {
	return lookupImpact(concentrationImpacts, concentration, 0)
}

func SwitchingCostsImpact(costs string) float64 {
	return lookupImpact(switchingCostImpacts, costs, switchingCostsFallback)
}

func NetworkEffectsImpact(effects string) float64 {
	return lookupImpact(networkEffectImpacts, effects, 0)
}

func MarketPositionImpact(position string) float64 {
	return lookupImpact(marketPositionImpacts, position, marketPositionFallback)
}

func DiscountImpact(discount float64) float64 {
	return (discount / 100) * 0.8
}

func GDPImpact(growth float64) float64 {
	return growth * 2
}

func InflationImpact(rate float64) float64 {
	return -rate * 0.5
}

// ConsumerConfidenceImpact は指数100を基準とします。
func ConsumerConfidenceImpact(index float64) float64 {
	return (index - 100) / 100 * 0.3
}

func MarketGrowthImpact(rate float64) float64 {
	return rate * 1.5
}

func RegulatoryImpact(environment string) float64 {
	return lookupImpact(regulatoryImpacts, environment, 0)
}

func TechnologyDisruptionImpact(disruption string) float64 {
	return lookupImpact(techDisruptionImpacts, disruption, 0)
}

func SupplyChainRiskImpact(risk string) float64 {
	return lookupImpact(supplyChainImpacts, risk, 0)
}

func ESGImpact(impact string) float64 {
	return lookupImpact(esgImpacts, impact, 0)
}

// FactorImpacts は要因ごとの需要寄与の一覧です。
type FactorImpacts struct {
	Price                 float64
	CrossPrice            float64
	Cannibalization       float64
	Bundle                float64
	Psychological         float64
	Marketing             float64
	Promotion             float64
	Churn                 float64
	RepeatPurchase        float64
	CustomerLifetimeValue float64
	ChannelMix            float64
	CustomerSegment       float64
	ExternalEvent         float64
	Seasonal              float64
	Holiday               float64
	Weather               float64
	CompetitorPrice       float64
	CompetitorPromotion   float64
	BrandStrength         float64
	MarketConcentration   float64
	SwitchingCosts        float64
	NetworkEffects        float64
	MarketPosition        float64
	Discount              float64
	GDP                   float64
	Inflation             float64
	ConsumerConfidence    float64
	MarketGrowth          float64
	Regulatory            float64
	TechnologyDisruption  float64
	SupplyChainRisk       float64
	ESG                   float64
}

// CalculateFactorImpacts はデフォルト値を解決して全インパクトを計算します。
func CalculateFactorImpacts(factors models.AllFactors) FactorImpacts {
	return resolveFactors(factors).impacts()
}

func (r resolvedFactors) impacts() FactorImpacts {
	return FactorImpacts{
		Price:                 PriceImpact(r.priceChange, r.priceElasticity),
		CrossPrice:            CrossPriceImpact(r.crossPriceElasticity, r.priceChange),
		Cannibalization:       CannibalizationImpact(r.cannibalizationRate, r.priceChange),
		Bundle:                BundleImpact(r.bundleEffect, r.discount),
		Psychological:         PsychologicalImpact(r.psychologicalThreshold),
		Marketing:             MarketingImpact(r.marketingSpend),
		Promotion:             PromotionImpact(r.promotionIntensity),
		Churn:                 ChurnImpact(r.churnRate),
		RepeatPurchase:        RepeatPurchaseImpact(r.repeatPurchaseRate),
		CustomerLifetimeValue: CustomerLifetimeValueImpact(r.customerLifetimeValue),
		ChannelMix:            ChannelMixImpact(r.channelMix),
		CustomerSegment:       CustomerSegmentImpact(r.customerSegment),
		ExternalEvent:         ExternalEventImpact(r.externalEvent),
		Seasonal:              SeasonalImpact(r.seasonalMultiplier),
		Holiday:               HolidayImpact(r.holidayEffect),
		Weather:               WeatherImpact(r.weatherImpact),
		CompetitorPrice:       CompetitorPriceImpact(r.competitorPriceChange),
		CompetitorPromotion:   CompetitorPromotionImpact(r.competitorPromotion),
		BrandStrength:         BrandStrengthImpact(r.brandStrength),
		MarketConcentration:   MarketConcentrationImpact(r.marketConcentration),
		SwitchingCosts:        SwitchingCostsImpact(r.switchingCosts),
		NetworkEffects:        NetworkEffectsImpact(r.networkEffects),
		MarketPosition:        MarketPositionImpact(r.marketPosition),
		Discount:              DiscountImpact(r.discount),
		GDP:                   GDPImpact(r.gdpGrowth),
		Inflation:             InflationImpact(r.inflationRate),
		ConsumerConfidence:    ConsumerConfidenceImpact(r.consumerConfidence),
		MarketGrowth:          MarketGrowthImpact(r.marketGrowthRate),
		Regulatory:            RegulatoryImpact(r.regulatoryEnvironment),
		TechnologyDisruption:  TechnologyDisruptionImpact(r.technologyDisruption),
		SupplyChainRisk:       SupplyChainRiskImpact(r.supplyChainRisk),
		ESG:                   ESGImpact(r.esgImpact),
	}
}

// Breakdown は寄与をグループ名付きで合算順に返します。
func (fi FactorImpacts) Breakdown() []models.InfluencingFactor {
	return []models.InfluencingFactor{
		{Name: "price", Group: "pricing", Impact: fi.Price},
		{Name: "crossPrice", Group: "pricing", Impact: fi.CrossPrice},
		{Name: "cannibalization", Group: "pricing", Impact: fi.Cannibalization},
		{Name: "bundle", Group: "pricing", Impact: fi.Bundle},
		{Name: "psychological", Group: "pricing", Impact: fi.Psychological},
		{Name: "marketing", Group: "demand", Impact: fi.Marketing},
		{Name: "promotion", Group: "demand", Impact: fi.Promotion},
		{Name: "churn", Group: "demand", Impact: fi.Churn},
		{Name: "repeatPurchase", Group: "demand", Impact: fi.RepeatPurchase},
		{Name: "customerLifetimeValue", Group: "demand", Impact: fi.CustomerLifetimeValue},
		{Name: "channelMix", Group: "demand", Impact: fi.ChannelMix},
		{Name: "customerSegment", Group: "demand", Impact: fi.CustomerSegment},
		{Name: "externalEvent", Group: "demand", Impact: fi.ExternalEvent},
		{Name: "seasonal", Group: "demand", Impact: fi.Seasonal},
		{Name: "holiday", Group: "demand", Impact: fi.Holiday},
		{Name: "weather", Group: "demand", Impact: fi.Weather},
		{Name: "competitorPrice", Group: "competitive", Impact: fi.CompetitorPrice},
		{Name: "competitorPromotion", Group: "competitive", Impact: fi.CompetitorPromotion},
		{Name: "brandStrength", Group: "competitive", Impact: fi.BrandStrength},
		{Name: "marketConcentration", Group: "competitive", Impact: fi.MarketConcentration},
		{Name: "switchingCosts", Group: "competitive", Impact: fi.SwitchingCosts},
		{Name: "networkEffects", Group: "competitive", Impact: fi.NetworkEffects},
		{Name: "marketPosition", Group: "competitive", Impact: fi.MarketPosition},
		{Name: "discount", Group: "pricing", Impact: fi.Discount},
		{Name: "gdp", Group: "market", Impact: fi.GDP},
		{Name: "inflation", Group: "market", Impact: fi.Inflation},
		{Name: "consumerConfidence", Group: "market", Impact: fi.ConsumerConfidence},
		{Name: "marketGrowth", Group: "market", Impact: fi.MarketGrowth},
		{Name: "regulatory", Group: "market", Impact: fi.Regulatory},
		{Name: "technologyDisruption", Group: "market", Impact: fi.TechnologyDisruption},
		{Name: "supplyChainRisk", Group: "market", Impact: fi.SupplyChainRisk},
		{Name: "esg", Group: "market", Impact: fi.ESG},
	}
}

// Total は全寄与の単純合計です（重み付け・クランプなし）。
// 加算順は Breakdown と同じです。
func (fi FactorImpacts) Total() float64 {
	total := 0.0
	total += fi.Price
	total += fi.CrossPrice
	total += fi.Cannibalization
	total += fi.Bundle
	total += fi.Psychological
	total += fi.Marketing
	total += fi.Promotion
	total += fi.Churn
	total += fi.RepeatPurchase
	total += fi.CustomerLifetimeValue
	total += fi.ChannelMix
	total += fi.CustomerSegment
	total += fi.ExternalEvent
	total += fi.Seasonal
	total += fi.Holiday
	total += fi.Weather
	total += fi.CompetitorPrice
	total += fi.CompetitorPromotion
	total += fi.BrandStrength
	total += fi.MarketConcentration
	total += fi.SwitchingCosts
	total += fi.NetworkEffects
	total += fi.MarketPosition
	total += fi.Discount
	total += fi.GDP
	total += fi.Inflation
	total += fi.ConsumerConfidence
	total += fi.MarketGrowth
	total += fi.Regulatory
	total += fi.TechnologyDisruption
	total += fi.SupplyChainRisk
	total += fi.ESG
	return total
}
