package api

import (
	"net/http"
	"zyntra/internal/calc"
	"zyntra/internal/catalog"
	"zyntra/internal/models"
	"zyntra/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type planView struct {
	models.StakingPlan
	Visual catalog.Visual `json:"visual"`
}

type stakePayload struct {
	Amount   float64 `json:"amount"`
	Compound bool    `json:"compound"`
}

type quoteView struct {
	PlanID     string               `json:"planId"`
	Compound   bool                 `json:"compound"`
	Projection models.Projection    `json:"projection"`
	Growth     []models.GrowthPoint `json:"growth"`
}

type stakeReceipt struct {
	ID          string            `json:"id"`
	PlanID      string            `json:"planId"`
	Status      string            `json:"status"`
	Projection  models.Projection `json:"projection"`
	ConfirmedAt int64             `json:"confirmedAt"`
}

func viewOf(p models.StakingPlan) planView {
	return planView{StakingPlan: p, Visual: catalog.VisualFor(p.Kind)}
}

func (h *Handler) listPlans(c *gin.Context) {
	plans := h.catalog.Plans()
	out := make([]planView, len(plans))
	for i, p := range plans {
		out[i] = viewOf(p)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getPlan(c *gin.Context) {
	plan, err := h.catalog.Plan(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(plan))
}

func (h *Handler) project(c *gin.Context) (models.StakingPlan, stakePayload, models.Projection, bool) {
	plan, err := h.catalog.Plan(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return plan, stakePayload{}, models.Projection{}, false
	}
	var payload stakePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return plan, payload, models.Projection{}, false
	}
	proj, err := calc.Project(calc.RequestForPlan(plan, payload.Amount, payload.Compound, h.settings.CompoundBonusPct))
	if err != nil {
		writeDomainError(c, err)
		return plan, payload, proj, false
	}
	return plan, payload, proj, true
}

func (h *Handler) quoteStake(c *gin.Context) {
	plan, payload, proj, ok := h.project(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, quoteView{
		PlanID:     plan.ID,
		Compound:   payload.Compound,
		Projection: proj,
		Growth:     calc.GrowthCurve(payload.Amount, proj.EffectiveAPY, plan.DurationDays),
	})
}

// stake: симулированное подтверждение после фиксированной задержки.
func (h *Handler) stake(c *gin.Context) {
	plan, payload, proj, ok := h.project(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.sleep(ctx, h.settings.StakeDelay); err != nil {
		writeDomainError(c, err)
		return
	}

	receipt := stakeReceipt{
		ID:          uuid.NewString(),
		PlanID:      plan.ID,
		Status:      "confirmed",
		Projection:  proj,
		ConfirmedAt: h.now().UnixMilli(),
	}
	err := h.journal.RecordStake(ctx, recorder.StakeRow{
		ID:         receipt.ID,
		PlanID:     plan.ID,
		Principal:  payload.Amount,
		Compound:   payload.Compound,
		Projection: proj,
		At:         h.now(),
	})
	if err != nil {
		h.log.Warn("[API] stake not journaled", zap.String("id", receipt.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, receipt)
}
