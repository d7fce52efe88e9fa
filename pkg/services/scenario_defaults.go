package services

import (
	"scenario-sim-api/pkg/models"
)

// 任意要因のデフォルト値。nil の場合のみ適用し、0を含む明示値はそのまま使います。
const (
	defaultCrossPriceElasticity  = 0.0
	defaultCannibalizationRate   = 0.0
	defaultBundleEffect          = 0.0
	defaultChurnRate             = 0.05
	defaultRepeatPurchaseRate    = 0.35
	defaultCustomerLifetimeValue = 2500.0
	defaultBrandStrength         = 0.6
	defaultSupplierReliability   = 0.95
	defaultWarehouseUtilization  = 0.75
	defaultOrderProcessingCost   = 150.0
	defaultDefectRate            = 0.02
	defaultCapacityUtilization   = 0.8
	defaultWorkingCapitalRatio   = 0.15
	defaultCostOfCapital         = 0.12
	defaultBadDebtRate           = 0.01
	defaultTaxRate               = 0.25
	defaultGDPGrowth             = 0.03
	defaultInflationRate         = 0.03
	defaultConsumerConfidence    = 100.0
	defaultMarketGrowthRate      = 0.05
)

// resolvedFactors はデフォルト解決済みの要因セットです。
// 計算とレコメンドはこの構造体だけを参照します。
type resolvedFactors struct {
	// pricing
	priceChange            float64
	discount               float64
	costVariation          float64
	priceElasticity        float64
	crossPriceElasticity   float64
	cannibalizationRate    float64
	bundleEffect           float64
	psychologicalThreshold string

	// demand
	marketingSpend        float64
	promotionIntensity    float64
	seasonalMultiplier    float64
	holidayEffect         models.HolidayEffect
	weatherImpact         float64
	customerLifetimeValue float64
	churnRate             float64
	repeatPurchaseRate    float64
	channelMix            string
	customerSegment       string
	externalEvent         string

	// competitive
	competitorPriceChange float64
	competitorPromotion   models.CompetitorPromotion
	marketConcentration   string
	brandStrength         float64
	switchingCosts        string
	networkEffects        string
	marketPosition        string

	// inventory
	orderQuantity        float64
	leadTime             float64
	safetyStockLevel     models.Level
	demandVariability    models.Level
	eoqModel             string
	abcClassification    string
	supplierReliability  float64
	sourcingStrategy     string
	obsolescenceRisk     string
	warehouseUtilization float64

	// operational
	serviceLevelTarget  float64
	holdingCostRate     float64
	orderProcessingCost float64
	defectRate          float64
	capacityUtilization float64

	// financial
	hasFinancial        bool
	paymentTerms        string
	workingCapitalRatio float64
	costOfCapital       float64
	creditPolicy        string
	badDebtRate         float64
	taxRate             float64
	currencyRisk        string

	// market
	hasMarket             bool
	gdpGrowth             float64
	inflationRate         float64
	consumerConfidence    float64
	marketGrowthRate      float64
	regulatoryEnvironment string
	technologyDisruption  string
	supplyChainRisk       string
	esgImpact             string
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func resolveFactors(f models.AllFactors) resolvedFactors {
	r := resolvedFactors{
		priceChange:            f.Pricing.PriceChange,
		discount:               f.Pricing.Discount,
		costVariation:          f.Pricing.CostVariation,
		priceElasticity:        f.Pricing.PriceElasticity,
		crossPriceElasticity:   floatOr(f.Pricing.CrossPriceElasticity, defaultCrossPriceElasticity),
		cannibalizationRate:    floatOr(f.Pricing.CannibalizationRate, defaultCannibalizationRate),
		bundleEffect:           floatOr(f.Pricing.BundleEffect, defaultBundleEffect),
		psychologicalThreshold: f.Pricing.PsychologicalThreshold,

		marketingSpend:        f.Demand.MarketingSpend,
		promotionIntensity:    f.Demand.PromotionIntensity,
		seasonalMultiplier:    f.Demand.SeasonalMultiplier,
		holidayEffect:         f.Demand.HolidayEffect,
		weatherImpact:         f.Demand.WeatherImpact,
		customerLifetimeValue: floatOr(f.Demand.CustomerLifetimeValue, defaultCustomerLifetimeValue),
		churnRate:             floatOr(f.Demand.ChurnRate, defaultChurnRate),
		repeatPurchaseRate:    floatOr(f.Demand.RepeatPurchaseRate, defaultRepeatPurchaseRate),
		channelMix:            f.Demand.ChannelMix,
		customerSegment:       f.Demand.CustomerSegment,
		externalEvent:         f.Demand.ExternalEvent,

		competitorPriceChange: f.Competitive.CompetitorPriceChange,
		competitorPromotion:   f.Competitive.CompetitorPromotion,
		marketConcentration:   f.Competitive.MarketConcentration,
		brandStrength:         floatOr(f.Competitive.BrandStrength, defaultBrandStrength),
		switchingCosts:        f.Competitive.SwitchingCosts,
		networkEffects:        f.Competitive.NetworkEffects,
		marketPosition:        f.Competitive.MarketPosition,

		orderQuantity:        f.Inventory.OrderQuantity,
		leadTime:             f.Inventory.LeadTime,
		safetyStockLevel:     f.Inventory.SafetyStockLevel,
		demandVariability:    f.Inventory.DemandVariability,
		eoqModel:             f.Inventory.EOQModel,
		abcClassification:    f.Inventory.ABCClassification,
		supplierReliability:  floatOr(f.Inventory.SupplierReliability, defaultSupplierReliability),
		sourcingStrategy:     f.Inventory.SourcingStrategy,
		obsolescenceRisk:     f.Inventory.ObsolescenceRisk,
		warehouseUtilization: floatOr(f.Inventory.WarehouseUtilization, defaultWarehouseUtilization),

		serviceLevelTarget:  f.Operational.ServiceLevelTarget,
		holdingCostRate:     f.Operational.HoldingCostRate,
		orderProcessingCost: floatOr(f.Operational.OrderProcessingCost, defaultOrderProcessingCost),
		defectRate:          floatOr(f.Operational.DefectRate, defaultDefectRate),
		capacityUtilization: floatOr(f.Operational.CapacityUtilization, defaultCapacityUtilization),

		workingCapitalRatio: defaultWorkingCapitalRatio,
		costOfCapital:       defaultCostOfCapital,
		badDebtRate:         defaultBadDebtRate,
		taxRate:             defaultTaxRate,

		gdpGrowth:          defaultGDPGrowth,
		inflationRate:      defaultInflationRate,
		consumerConfidence: defaultConsumerConfidence,
		marketGrowthRate:   defaultMarketGrowthRate,
	}

	if fin := f.Financial; fin != nil {
		r.hasFinancial = true
		r.paymentTerms = fin.PaymentTerms
		r.workingCapitalRatio = floatOr(fin.WorkingCapitalRatio, defaultWorkingCapitalRatio)
		r.costOfCapital = floatOr(fin.CostOfCapital, defaultCostOfCapital)
		r.creditPolicy = fin.CreditPolicy
		r.badDebtRate = floatOr(fin.BadDebtRate, defaultBadDebtRate)
		r.taxRate = floatOr(fin.TaxRate, defaultTaxRate)
		r.currencyRisk = fin.CurrencyRisk
	}

	if m := f.Market; m != nil {
		r.hasMarket = true
		r.gdpGrowth = floatOr(m.GDPGrowth, defaultGDPGrowth)
		r.inflationRate = floatOr(m.InflationRate, defaultInflationRate)
		r.consumerConfidence = floatOr(m.ConsumerConfidence, defaultConsumerConfidence)
		r.marketGrowthRate = floatOr(m.MarketGrowthRate, defaultMarketGrowthRate)
		r.regulatoryEnvironment = m.RegulatoryEnvironment
		r.technologyDisruption = m.TechnologyDisruption
		r.supplyChainRisk = m.SupplyChainRisk
		r.esgImpact = m.ESGImpact
	}

	return r
}

// Float は任意項目に設定するためのポインタを返します。
func Float(v float64) *float64 {
	return &v
}

// CreateDefaultFactors は基準となる要因セットを返します。
// 価格変更なし、広告なし、通常季節、安全在庫は medium。任意グループは含みません。
func CreateDefaultFactors() models.AllFactors {
	return models.AllFactors{
		Pricing: models.PricingFactors{
			PriceChange:     0,
			Discount:        0,
			CostVariation:   0,
			PriceElasticity: -1.5,
		},
		Demand: models.DemandFactors{
			MarketingSpend:     0,
			PromotionIntensity: 0,
			SeasonalMultiplier: 1.0,
			HolidayEffect:      models.HolidayNone,
			WeatherImpact:      0,
		},
		Competitive: models.CompetitiveFactors{
			CompetitorPriceChange: 0,
			CompetitorPromotion:   models.CompetitorPromotionNone,
			MarketShareGoal:       0,
		},
		Inventory: models.InventoryFactors{
			OrderQuantity:     0,
			LeadTime:          0,
			SafetyStockLevel:  models.LevelMedium,
			DemandVariability: models.LevelMedium,
		},
		Operational: models.OperationalFactors{
			ServiceLevelTarget: 95,
			StockoutCostImpact: models.LevelMedium,
			HoldingCostRate:    25,
		},
	}
}

// NeutralFactors は任意要因をすべて固定し、需要ドリフトと付随コストをゼロにした要因セットです。
// この要因で計算すると現在の売上と、デフォルト税率での利益がそのまま再現されます。
//
// CreateDefaultFactors は中立ではありません。未指定の顧客指標・市場・競争構造の
// デフォルトだけで需要が約+15.8%変化します。
//
// 発注コストを0に固定するため EOQ も0になり、在庫は安全在庫だけです。
// そのため欠品リスクは常に high と判定され、欠品の警告が出ます。
// これは在庫の実態を示すものではないので、在庫指標は CreateDefaultFactors で評価してください。
func NeutralFactors() models.AllFactors {
	f := CreateDefaultFactors()

	f.Demand.ChurnRate = Float(0)
	f.Demand.RepeatPurchaseRate = Float(0)
	f.Demand.CustomerLifetimeValue = Float(0)

	f.Competitive.BrandStrength = Float(defaultBrandStrength)
	// low (-0.03) と nicher (+0.03) で相殺
	f.Competitive.SwitchingCosts = "low"
	f.Competitive.MarketPosition = "nicher"

	f.Operational.DefectRate = Float(0)
	f.Operational.OrderProcessingCost = Float(0)

	f.Financial = &models.FinancialFactors{
		PaymentTerms:        "immediate",
		WorkingCapitalRatio: Float(0),
		BadDebtRate:         Float(0),
		TaxRate:             Float(defaultTaxRate),
		CurrencyRisk:        "none",
	}
	f.Market = &models.MarketFactors{
		GDPGrowth:          Float(0),
		InflationRate:      Float(0),
		ConsumerConfidence: Float(defaultConsumerConfidence),
		MarketGrowthRate:   Float(0),
	}
	return f
}

// ApplyPreset はプリセットを base に重ねます。プリセットが持つグループのうち、
// 指定された項目だけを上書きします（nil と空文字は未指定）。base 自体は変更しません。
func ApplyPreset(base models.AllFactors, preset models.PresetScenario) models.AllFactors {
	out := cloneFactors(base)
	p := preset.Factors

	if o := p.Pricing; o != nil {
		dst := &out.Pricing
		setFloat(&dst.PriceChange, o.PriceChange)
		setFloat(&dst.Discount, o.Discount)
		setFloat(&dst.CostVariation, o.CostVariation)
		setFloat(&dst.PriceElasticity, o.PriceElasticity)
		setOptional(&dst.CrossPriceElasticity, o.CrossPriceElasticity)
		setOptional(&dst.CannibalizationRate, o.CannibalizationRate)
		setOptional(&dst.BundleEffect, o.BundleEffect)
		setOptional(&dst.CompetitiveResponseLag, o.CompetitiveResponseLag)
		setString(&dst.PsychologicalThreshold, o.PsychologicalThreshold)
	}

	if o := p.Demand; o != nil {
		dst := &out.Demand
		setFloat(&dst.MarketingSpend, o.MarketingSpend)
		setFloat(&dst.PromotionIntensity, o.PromotionIntensity)
		setFloat(&dst.SeasonalMultiplier, o.SeasonalMultiplier)
		setString(&dst.HolidayEffect, o.HolidayEffect)
		setFloat(&dst.WeatherImpact, o.WeatherImpact)
		setOptional(&dst.CustomerAcquisitionCost, o.CustomerAcquisitionCost)
		setOptional(&dst.CustomerLifetimeValue, o.CustomerLifetimeValue)
		setOptional(&dst.ChurnRate, o.ChurnRate)
		setOptional(&dst.RepeatPurchaseRate, o.RepeatPurchaseRate)
		setString(&dst.ChannelMix, o.ChannelMix)
		setString(&dst.CustomerSegment, o.CustomerSegment)
		setString(&dst.ExternalEvent, o.ExternalEvent)
	}

	if o := p.Competitive; o != nil {
		dst := &out.Competitive
		setFloat(&dst.CompetitorPriceChange, o.CompetitorPriceChange)
		setString(&dst.CompetitorPromotion, o.CompetitorPromotion)
		setFloat(&dst.MarketShareGoal, o.MarketShareGoal)
		setString(&dst.MarketConcentration, o.MarketConcentration)
		setOptional(&dst.BrandStrength, o.BrandStrength)
		setString(&dst.SwitchingCosts, o.SwitchingCosts)
		setString(&dst.NetworkEffects, o.NetworkEffects)
		setString(&dst.MarketPosition, o.MarketPosition)
	}

	if o := p.Inventory; o != nil {
		dst := &out.Inventory
		setFloat(&dst.OrderQuantity, o.OrderQuantity)
		setFloat(&dst.LeadTime, o.LeadTime)
		setString(&dst.SafetyStockLevel, o.SafetyStockLevel)
		setString(&dst.DemandVariability, o.DemandVariability)
		setString(&dst.EOQModel, o.EOQModel)
		setString(&dst.ReorderStrategy, o.ReorderStrategy)
		setString(&dst.ABCClassification, o.ABCClassification)
		setOptional(&dst.TurnoverTarget, o.TurnoverTarget)
		setOptional(&dst.SupplierReliability, o.SupplierReliability)
		setString(&dst.SourcingStrategy, o.SourcingStrategy)
		setString(&dst.ObsolescenceRisk, o.ObsolescenceRisk)
		setOptional(&dst.WarehouseUtilization, o.WarehouseUtilization)
	}

	if o := p.Operational; o != nil {
		dst := &out.Operational
		setFloat(&dst.ServiceLevelTarget, o.ServiceLevelTarget)
		setString(&dst.StockoutCostImpact, o.StockoutCostImpact)
		setFloat(&dst.HoldingCostRate, o.HoldingCostRate)
		setOptional(&dst.OrderProcessingCost, o.OrderProcessingCost)
		setOptional(&dst.DefectRate, o.DefectRate)
		setOptional(&dst.CapacityUtilization, o.CapacityUtilization)
	}

	if o := p.Financial; o != nil {
		if out.Financial == nil {
			out.Financial = &models.FinancialFactors{}
		}
		dst := out.Financial
		setString(&dst.PaymentTerms, o.PaymentTerms)
		setOptional(&dst.EarlyPaymentDiscount, o.EarlyPaymentDiscount)
		setOptional(&dst.WorkingCapitalRatio, o.WorkingCapitalRatio)
		setOptional(&dst.CostOfCapital, o.CostOfCapital)
		setString(&dst.CreditPolicy, o.CreditPolicy)
		setOptional(&dst.BadDebtRate, o.BadDebtRate)
		setOptional(&dst.TaxRate, o.TaxRate)
		setString(&dst.CurrencyRisk, o.CurrencyRisk)
	}

	if o := p.Market; o != nil {
		if out.Market == nil {
			out.Market = &models.MarketFactors{}
		}
		dst := out.Market
		setOptional(&dst.GDPGrowth, o.GDPGrowth)
		setOptional(&dst.InflationRate, o.InflationRate)
		setOptional(&dst.ConsumerConfidence, o.ConsumerConfidence)
		setOptional(&dst.MarketGrowthRate, o.MarketGrowthRate)
		setString(&dst.RegulatoryEnvironment, o.RegulatoryEnvironment)
		setString(&dst.TechnologyDisruption, o.TechnologyDisruption)
		setString(&dst.SupplyChainRisk, o.SupplyChainRisk)
		setString(&dst.ESGImpact, o.ESGImpact)
	}

	return out
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setOptional(dst **float64, v *float64) {
	if v != nil {
		*dst = clonePtr(v)
	}
}

func setString[T ~string](dst *T, v T) {
	if v != "" {
		*dst = v
	}
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFinancial(f *models.FinancialFactors) *models.FinancialFactors {
	if f == nil {
		return nil
	}
	c := *f
	c.EarlyPaymentDiscount = clonePtr(f.EarlyPaymentDiscount)
	c.WorkingCapitalRatio = clonePtr(f.WorkingCapitalRatio)
	c.CostOfCapital = clonePtr(f.CostOfCapital)
	c.BadDebtRate = clonePtr(f.BadDebtRate)
	c.TaxRate = clonePtr(f.TaxRate)
	return &c
}

func cloneMarket(m *models.MarketFactors) *models.MarketFactors {
	if m == nil {
		return nil
	}
	c := *m
	c.GDPGrowth = clonePtr(m.GDPGrowth)
	c.InflationRate = clonePtr(m.InflationRate)
	c.ConsumerConfidence = clonePtr(m.ConsumerConfidence)
	c.MarketGrowthRate = clonePtr(m.MarketGrowthRate)
	return &c
}

// cloneFactors はポインタも含めてディープコピーします。
func cloneFactors(f models.AllFactors) models.AllFactors {
	c := f
	c.Pricing.CrossPriceElasticity = clonePtr(f.Pricing.CrossPriceElasticity)
	c.Pricing.CannibalizationRate = clonePtr(f.Pricing.CannibalizationRate)
	c.Pricing.BundleEffect = clonePtr(f.Pricing.BundleEffect)
	c.Pricing.CompetitiveResponseLag = clonePtr(f.Pricing.CompetitiveResponseLag)
	c.Demand.CustomerAcquisitionCost = clonePtr(f.Demand.CustomerAcquisitionCost)
	c.Demand.CustomerLifetimeValue = clonePtr(f.Demand.CustomerLifetimeValue)
	c.Demand.ChurnRate = clonePtr(f.Demand.ChurnRate)
	c.Demand.RepeatPurchaseRate = clonePtr(f.Demand.RepeatPurchaseRate)
	c.Competitive.BrandStrength = clonePtr(f.Competitive.BrandStrength)
	c.Inventory.TurnoverTarget = clonePtr(f.Inventory.TurnoverTarget)
	c.Inventory.SupplierReliability = clonePtr(f.Inventory.SupplierReliability)
	c.Inventory.WarehouseUtilization = clonePtr(f.Inventory.WarehouseUtilization)
	c.Operational.OrderProcessingCost = clonePtr(f.Operational.OrderProcessingCost)
	c.Operational.DefectRate = clonePtr(f.Operational.DefectRate)
	c.Operational.CapacityUtilization = clonePtr(f.Operational.CapacityUtilization)
	c.Financial = cloneFinancial(f.Financial)
	c.Market = cloneMarket(f.Market)
	return c
}
