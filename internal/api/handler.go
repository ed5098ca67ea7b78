package api

import (
	"context"
	"net/http"
	"time"
	"zyntra/internal/calc"
	"zyntra/internal/catalog"
	"zyntra/internal/models"
	"zyntra/internal/recorder"
	"zyntra/internal/runner"
	"zyntra/internal/sim"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const basePath = "/api/v1"

var (
	errNotStarted   = errors.New("market simulation has not started yet")
	errBadGrouping  = errors.New("grouping must be one of 0.01, 0.1, 1, 10")
	errEmptyMessage = errors.New("message must not be empty")
)

// Market: то, что API нужно от раннера.
type Market interface {
	Latest() (models.Snapshot, bool)
	Positions() []models.Position
	OpenPosition(ctx context.Context, req models.OpenPositionRequest) (models.Position, error)
	ClosePosition(ctx context.Context, id string) (models.Position, error)
	AddMargin(ctx context.Context, id string, amount float64) (models.Position, error)
}

type Assistant interface {
	Reply(ctx context.Context, text string) string
}

type Settings struct {
	Symbol           string
	ChartInterval    string
	ChartTheme       string
	CompoundBonusPct float64
	StakeDelay       time.Duration
	AuthDelay        time.Duration
}

type Handler struct {
	router    *gin.Engine
	market    Market
	catalog   *catalog.Catalog
	assistant Assistant
	journal   recorder.Journal
	settings  Settings
	depthSrc  sim.Source
	log       *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewHandler(
	market Market,
	cat *catalog.Catalog,
	assistant Assistant,
	journal recorder.Journal,
	settings Settings,
	depthSrc sim.Source,
	log *zap.Logger,
) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	if journal == nil {
		journal = recorder.Nop{}
	}
	h := &Handler{
		router:    router,
		market:    market,
		catalog:   cat,
		assistant: assistant,
		journal:   journal,
		settings:  settings,
		depthSrc:  sim.NewLockedSource(depthSrc),
		log:       log,
		now:       time.Now,
		sleep:     sleepCtx,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Mount вешает дополнительный обработчик (websocket-фид) на тот же роутер.
func (h *Handler) Mount(path string, handler http.Handler) {
	h.router.GET(path, gin.WrapH(handler))
}

func (h *Handler) registerRoutes() {
	v1 := h.router.Group(basePath)

	market := v1.Group("/market")
	{
		market.GET("", h.getMarket)
		market.GET("/book", h.getBook)
		market.GET("/depth", h.getDepth)
		market.GET("/chart", h.getChart)
	}

	v1.GET("/coins", h.getCoins)

	positions := v1.Group("/positions")
	{
		positions.GET("", h.listPositions)
		positions.POST("", h.openPosition)
		positions.DELETE("/:id", h.closePosition)
		positions.POST("/:id/margin", h.addMargin)
	}

	v1.POST("/leverage/quote", h.quoteLeverage)

	staking := v1.Group("/staking")
	{
		staking.GET("/plans", h.listPlans)
		staking.GET("/plans/:id", h.getPlan)
		staking.POST("/plans/:id/quote", h.quoteStake)
		staking.POST("/plans/:id/stake", h.stake)
	}

	v1.GET("/referral/tier", h.referralTier)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/signup", h.signup)
	}

	assistant := v1.Group("/assistant")
	{
		assistant.GET("", h.assistantGreeting)
		assistant.POST("/chat", h.chat)
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor переводит доменные ошибки в HTTP-коды.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calc.ErrInvalidLeverage),
		errors.Is(err, calc.ErrInvalidInput),
		errors.Is(err, calc.ErrShortLiquidationUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, calc.ErrBelowMinimumStake):
		return http.StatusUnprocessableEntity
	case errors.Is(err, runner.ErrUnknownPosition),
		errors.Is(err, catalog.ErrUnknownPlan),
		errors.Is(err, catalog.ErrUnknownCoin):
		return http.StatusNotFound
	case errors.Is(err, runner.ErrNotRunning):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(c *gin.Context, err error) {
	writeError(c, statusFor(err), errors.Cause(err))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
