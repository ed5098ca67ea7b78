package calc

import (
	"zyntra/internal/models"

	"github.com/pkg/errors"
)

const (
	DefaultCompoundBonusPct = 5.0
	// окно для гибких планов (durationDays == 0), одно на весь сервис
	FlexibleWindowDays = 30
	daysInYear         = 365
	curvePoints        = 15
)

type StakeRequest struct {
	Principal        float64 `json:"principal"`
	APY              float64 `json:"apy"`
	DurationDays     int     `json:"durationDays"`
	MinStake         float64 `json:"minStake"`
	Compound         bool    `json:"compound"`
	CompoundBonusPct float64 `json:"compoundBonusPct"`
}

// RequestForPlan собирает запрос из плана каталога.
func RequestForPlan(plan models.StakingPlan, principal float64, compound bool, bonusPct float64) StakeRequest {
	return StakeRequest{
		Principal:        principal,
		APY:              plan.APY,
		DurationDays:     plan.DurationDays,
		MinStake:         plan.MinStake,
		Compound:         compound,
		CompoundBonusPct: bonusPct,
	}
}

// EffectiveAPY: "компаундинг": это плоская надбавка к ставке, а не сложный процент.
func EffectiveAPY(apy float64, compound bool, bonusPct float64) float64 {
	if !compound {
		return apy
	}
	return apy * (1 + bonusPct/100)
}

// TermDays: гибкий план считается по окну FlexibleWindowDays.
func TermDays(durationDays int) int {
	if durationDays == 0 {
		return FlexibleWindowDays
	}
	return durationDays
}

// Project: простой процент: годовой, месячный, дневной доход и доход за срок.
// Чистая функция.
func Project(req StakeRequest) (models.Projection, error) {
	if req.Principal < 0 || req.APY < 0 || req.DurationDays < 0 {
		return models.Projection{}, errors.Wrap(ErrInvalidInput, "negative principal, apy or duration")
	}
	if req.Principal < req.MinStake {
		return models.Projection{}, errors.Wrapf(ErrBelowMinimumStake, "min stake %.2f", req.MinStake)
	}

	apy := EffectiveAPY(req.APY, req.Compound, req.CompoundBonusPct)
	yearly := req.Principal * apy / 100
	days := TermDays(req.DurationDays)

	return models.Projection{
		Principal:    req.Principal,
		EffectiveAPY: apy,
		Yearly:       yearly,
		Monthly:      yearly / 12,
		Daily:        yearly / daysInYear,
		TermDays:     days,
		TermReturn:   yearly * (float64(days) / daysInYear),
	}, nil
}

// GrowthCurve: линейный рост стейка для графика, шаг max(1, days/15).
func GrowthCurve(principal, apy float64, durationDays int) []models.GrowthPoint {
	days := TermDays(durationDays)
	if days <= 0 {
		return nil
	}
	step := days / curvePoints
	if step < 1 {
		step = 1
	}
	dailyRate := apy / 100 / daysInYear

	out := make([]models.GrowthPoint, 0, days/step+1)
	for d := 0; d <= days; d += step {
		interest := principal * dailyRate * float64(d)
		out = append(out, models.GrowthPoint{Day: d, Value: principal + interest, Profit: interest})
	}
	return out
}
