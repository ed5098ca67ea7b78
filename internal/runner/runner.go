package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"zyntra/internal/calc"
	"zyntra/internal/models"
	"zyntra/internal/sim"
	"zyntra/pkg/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrUnknownPosition = errors.New("unknown position")
	ErrNotRunning      = errors.New("runner is not running")
)

type Config struct {
	Symbol       string
	StartPrice   float64
	TickInterval time.Duration
	DriftK       float64
	Book         sim.BookConfig
	TradeMin     time.Duration
	TradeMax     time.Duration
	TapeSize     int
	Seed         uint64
	LeverageMin  int
	LeverageMax  int
}

// TickObserver: кому сообщать о тиках (health).
type TickObserver interface {
	TouchTick(t time.Time)
	SetReady(v bool)
}

// Runner: единственный владелец изменяемого состояния симуляции.
// Наружу уходят только неизменяемые снапшоты; изменения приходят командами через канал.
type Runner struct {
	cfg Config
	log *zap.Logger
	obs TickObserver

	src      sim.Source // только из горутины loop
	tradeSrc sim.Source // только из горутины таймера сделок
	now      func() time.Time

	cmds      chan command
	running   atomic.Bool
	startOnce sync.Once
	done      chan struct{}

	latest atomic.Pointer[models.Snapshot]

	subMu  sync.Mutex
	subs   map[int]chan models.Snapshot
	nextID int
}

type state struct {
	seq         uint64
	walk        *sim.PriceWalk
	book        models.OrderBook
	positions   []models.Position
	trades      []models.Trade
	funding     *sim.FundingClock
	fundingRate float64
	fundingHist []models.FundingPoint
}

type command struct {
	apply func(st *state) (models.Position, error)
	reply chan result
}

type result struct {
	pos models.Position
	err error
}

func New(cfg Config, log *zap.Logger, obs TickObserver) *Runner {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Runner{
		cfg:      cfg,
		log:      log,
		obs:      obs,
		src:      sim.NewSource(seed),
		tradeSrc: sim.NewSource(seed + 1),
		now:      time.Now,
		cmds:     make(chan command),
		done:     make(chan struct{}),
		subs:     make(map[int]chan models.Snapshot),
	}
}

// Start запускает таймеры. Всё останавливается вместе с ctx, повторный вызов ничего не делает.
// Команды принимаются сразу после возврата: они ждут в канале, пока цикл не поднимется.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.running.Store(true)

		priceTicker := time.NewTicker(r.cfg.TickInterval)
		trades := make(chan time.Time)

		go r.tradeTimer(ctx, trades)
		go func() {
			defer priceTicker.Stop()
			r.loop(ctx, priceTicker.C, trades)
		}()
	})
}

// Done закрывается, когда цикл остановлен.
func (r *Runner) Done() <-chan struct{} { return r.done }

// tradeTimer: свой таймер со случайным интервалом 2-5с, независимый от ценового.
func (r *Runner) tradeTimer(ctx context.Context, out chan<- time.Time) {
	for {
		delay := sim.NextTradeDelay(r.cfg.TradeMin, r.cfg.TradeMax, r.tradeSrc)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case now := <-t.C:
			select {
			case out <- now:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *Runner) loop(ctx context.Context, priceTicks <-chan time.Time, tradeTicks <-chan time.Time) {
	st := r.initState()
	r.running.Store(true)
	defer func() {
		if r.obs != nil {
			r.obs.SetReady(false)
		}
		r.log.Info("[RUNNER] stopped", zap.Uint64("ticks", st.seq))
		r.running.Store(false)
		close(r.done)
	}()

	r.log.Info("[RUNNER] started",
		zap.String("symbol", r.cfg.Symbol),
		zap.Float64("price", st.walk.Current()),
		zap.Duration("tick", r.cfg.TickInterval),
	)
	// первый тик сразу, как в демо
	r.onPriceTick(ctx, st, r.now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-priceTicks:
			r.onPriceTick(ctx, st, now)
		case now := <-tradeTicks:
			r.onTrade(st, now)
		case cmd := <-r.cmds:
			pos, err := cmd.apply(st)
			if err == nil {
				r.publish(st, r.now())
			}
			cmd.reply <- result{pos: pos, err: err}
		}
	}
}

func (r *Runner) initState() *state {
	return &state{
		walk:        sim.NewPriceWalk(r.cfg.StartPrice, r.cfg.DriftK, r.src),
		funding:     sim.NewFundingClock(3*time.Hour + 45*time.Minute + 12*time.Second),
		fundingRate: sim.DefaultFundingRate,
		fundingHist: sim.FundingHistory(r.src),
	}
}

func (r *Runner) onPriceTick(ctx context.Context, st *state, now time.Time) {
	span, _ := tracing.StartSpan(ctx, "runner.tick")
	defer span.Finish()

	price := st.walk.Next()
	st.book = sim.GenerateBook(price, r.cfg.Book, r.src)
	st.positions = calc.RevalueAll(st.positions, price)
	st.funding.Tick(r.cfg.TickInterval)

	span.SetTag("price", price)
	span.SetTag("positions", len(st.positions))

	r.publish(st, now)
	if r.obs != nil {
		r.obs.TouchTick(now)
		r.obs.SetReady(true)
	}
}

func (r *Runner) onTrade(st *state, now time.Time) {
	tr := sim.NewTrade(uuid.NewString(), st.walk.Current(), r.src, now)
	st.trades = sim.PushTrade(st.trades, tr, r.cfg.TapeSize)
	r.publish(st, now)
}

func (r *Runner) publish(st *state, now time.Time) {
	st.seq++
	positions := make([]models.Position, len(st.positions))
	copy(positions, st.positions)

	snap := models.Snapshot{
		Seq:       st.seq,
		Symbol:    r.cfg.Symbol,
		Price:     st.walk.Current(),
		Book:      st.book,
		Positions: positions,
		Trades:    st.trades,
		Funding: models.Funding{
			Rate:    st.fundingRate,
			NextIn:  st.funding.Remaining(),
			History: st.fundingHist,
		},
		At: now,
	}
	r.latest.Store(&snap)

	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, ch := range r.subs {
		offer(ch, snap)
	}
}

// offer: last-write-wins: если подписчик не успел забрать прошлый снапшот, заменяем его.
func offer(ch chan models.Snapshot, snap models.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// Latest: последний опубликованный снапшот.
func (r *Runner) Latest() (models.Snapshot, bool) {
	p := r.latest.Load()
	if p == nil {
		return models.Snapshot{}, false
	}
	return *p, true
}

// Subscribe отдаёт канал на один слот и функцию отписки.
func (r *Runner) Subscribe() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 1)

	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	r.subMu.Unlock()

	if snap, ok := r.Latest(); ok {
		offer(ch, snap)
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subs, id)
			r.subMu.Unlock()
		})
	}
}

func (r *Runner) submit(ctx context.Context, apply func(st *state) (models.Position, error)) (models.Position, error) {
	if !r.running.Load() {
		return models.Position{}, ErrNotRunning
	}
	cmd := command{apply: apply, reply: make(chan result, 1)}
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return models.Position{}, ErrNotRunning
	case <-ctx.Done():
		return models.Position{}, ctx.Err()
	}
	select {
	case res := <-cmd.reply:
		return res.pos, res.err
	case <-ctx.Done():
		return models.Position{}, ctx.Err()
	}
}
