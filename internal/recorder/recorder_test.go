package recorder

import (
	"context"
	"strings"
	"testing"
	"time"
	"zyntra/internal/models"
	"zyntra/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memJournal struct {
	ticks []TickRow
	fail  bool
}

func (m *memJournal) RecordTick(_ context.Context, row TickRow) error {
	if m.fail {
		return errors.New("boom")
	}
	m.ticks = append(m.ticks, row)
	return nil
}

func (m *memJournal) RecordStake(context.Context, StakeRow) error { return nil }

func TestRecorderSamplesBySeq(t *testing.T) {
	j := &memJournal{}
	r := New(j, 3, zap.NewNop())
	ctx := context.Background()

	for _, seq := range []uint64{1, 2, 3, 4, 5, 9, 10, 12} {
		r.Observe(ctx, models.Snapshot{Seq: seq})
	}
	var got []uint64
	for _, row := range j.ticks {
		got = append(got, row.Seq)
	}
	require.Equal(t, []uint64{1, 4, 9, 12}, got)
}

func TestRecorderSurvivesJournalErrors(t *testing.T) {
	j := &memJournal{fail: true}
	r := New(j, 0, zap.NewNop())
	r.Observe(context.Background(), models.Snapshot{Seq: 1})
	r.Observe(context.Background(), models.Snapshot{Seq: 2})
	require.Empty(t, j.ticks)
}

func TestTickRowFrom(t *testing.T) {
	at := time.Unix(1700000000, 0)
	row := TickRowFrom(models.Snapshot{
		Seq:    7,
		Symbol: "BTC",
		Price:  100,
		Book: models.OrderBook{
			Asks: []models.OrderBookLevel{{Price: 102}, {Price: 101}},
			Bids: []models.OrderBookLevel{{Price: 99}, {Price: 98}},
		},
		Positions: []models.Position{{UnrealizedPnL: 5}, {UnrealizedPnL: -2}},
		At:        at,
	})
	require.Equal(t, TickRow{
		Seq: 7, Symbol: "BTC", Price: 100, BestBid: 99, BestAsk: 101,
		Positions: 2, TotalPnL: 3, At: at,
	}, row)
}

type execCall struct {
	sql  string
	args []any
}

type fakeTx struct {
	calls []execCall
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }

type fakeManager struct {
	tx   *fakeTx
	inTx int
}

func (m *fakeManager) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx db.Transaction) error) error {
	m.inTx++
	return fn(ctx, m.tx)
}

func (m *fakeManager) Conn() db.Transaction { return m.tx }

func TestPgJournal(t *testing.T) {
	m := &fakeManager{tx: &fakeTx{}}
	j := NewPgJournal(m)
	ctx := context.Background()

	require.NoError(t, j.EnsureSchema(ctx))
	require.NoError(t, j.RecordTick(ctx, TickRow{Seq: 3, Symbol: "BTC", Price: 1}))
	require.NoError(t, j.RecordStake(ctx, StakeRow{
		ID:         "5f0c7d1e-0000-4000-8000-000000000001",
		PlanID:     "locked-eth-90",
		Principal:  100,
		Projection: models.Projection{Principal: 100, Yearly: 12},
	}))

	require.Len(t, m.tx.calls, 3)
	require.Contains(t, m.tx.calls[0].sql, "CREATE TABLE IF NOT EXISTS market_ticks")
	require.True(t, strings.HasPrefix(m.tx.calls[1].sql, "INSERT INTO market_ticks"))
	require.Equal(t, int64(3), m.tx.calls[1].args[0])
	require.True(t, strings.HasPrefix(m.tx.calls[2].sql, "INSERT INTO stakes"))
	require.Equal(t, 1, m.inTx)

	raw, ok := m.tx.calls[2].args[4].([]byte)
	require.True(t, ok)
	require.Contains(t, string(raw), `"yearly":12`)
}
