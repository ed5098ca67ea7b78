package models

type PlanKind string

const (
	PlanFlexible PlanKind = "flexible"
	PlanLocked   PlanKind = "locked"
	PlanDeFi     PlanKind = "defi"
	PlanVIP      PlanKind = "vip"
)

type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

type FAQ struct {
	Q string `yaml:"q" json:"q"`
	A string `yaml:"a" json:"a"`
}

// StakingPlan: справочник, в рантайме не меняется.
type StakingPlan struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Badge        string   `yaml:"badge" json:"badge,omitempty"`
	Kind         PlanKind `yaml:"kind" json:"kind"`
	APY          float64  `yaml:"apy" json:"apy"`
	Duration     string   `yaml:"duration" json:"duration"`
	DurationDays int      `yaml:"duration_days" json:"durationDays"`
	MinStake     float64  `yaml:"min_stake" json:"minStake"`
	PoolFilled   float64  `yaml:"pool_filled" json:"poolFilled"`
	Participants int      `yaml:"participants" json:"participants"`
	Features     []string `yaml:"features" json:"features"`
	Risk         RiskTier `yaml:"risk" json:"risk"`
	Description  string   `yaml:"description" json:"description"`
	FAQ          []FAQ    `yaml:"faq" json:"faq"`
}

func (p StakingPlan) IsFlexible() bool { return p.DurationDays == 0 }

// Projection: результат расчёта доходности стейкинга.
type Projection struct {
	Principal    float64 `json:"principal"`
	EffectiveAPY float64 `json:"effectiveApy"`
	Yearly       float64 `json:"yearly"`
	Monthly      float64 `json:"monthly"`
	Daily        float64 `json:"daily"`
	TermDays     int     `json:"termDays"`
	TermReturn   float64 `json:"termReturn"`
}

type GrowthPoint struct {
	Day    int     `json:"day"`
	Value  float64 `json:"value"`
	Profit float64 `json:"profit"`
}
