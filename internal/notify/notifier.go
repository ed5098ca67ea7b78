package notify

import (
	"context"
	"fmt"
	"strings"
	"zyntra/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// SnapshotSource: откуда брать текущее состояние для команд бота.
type SnapshotSource interface {
	Latest() (models.Snapshot, bool)
}

// Telegram: пассивный нотифайер + команды /positions и /price.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	src    SnapshotSource
	log    *zap.Logger
}

func NewTelegram(token string, chatID int64, src SnapshotSource, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		src:    src,
		log:    log,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		t.log.Warn("telegram send failed", zap.Error(err))
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /positions: открытые симулированные позиции
func (t *Telegram) handlePositions() {
	snap, ok := t.src.Latest()
	if !ok {
		t.Send("⏳ Симуляция ещё не запущена")
		return
	}
	t.Send(FormatPositions(snap))
}

// /price: текущая цена и лучший бид/аск
func (t *Telegram) handlePrice() {
	snap, ok := t.src.Latest()
	if !ok {
		t.Send("⏳ Симуляция ещё не запущена")
		return
	}
	t.Send(FormatPrice(snap))
}

// Start: long-polling для команд.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "positions":
					t.handlePositions()
				case "price":
					t.handlePrice()
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t != nil && t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
}

// Stdout: заглушка, всё пишет в лог.
type Stdout struct {
	log *zap.Logger
}

func NewStdout(log *zap.Logger) *Stdout { return &Stdout{log: log} }

func (s *Stdout) Send(msg string) { s.log.Info("[NOTIFY] " + msg) }

func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }

func FormatPositions(snap models.Snapshot) string {
	if len(snap.Positions) == 0 {
		return "📭 Открытых позиций нет"
	}
	var b strings.Builder
	b.WriteString("📊 Открытые позиции:\n")
	for _, p := range snap.Positions {
		fmt.Fprintf(&b, "- %s [%s] size=%.4f entry=%.2f mark=%.2f lev=%dx pnl=%.2f (%.2f%%)\n",
			p.Symbol, strings.ToUpper(string(p.Side)), p.Size, p.EntryPrice, p.MarkPrice,
			p.Leverage, p.UnrealizedPnL, p.UnrealizedPnLPercent)
	}
	fmt.Fprintf(&b, "Total PnL: %.2f", snap.TotalUnrealizedPnL())
	return b.String()
}

func FormatPrice(snap models.Snapshot) string {
	msg := fmt.Sprintf("💹 %s/USDT %.2f", snap.Symbol, snap.Price)
	if bid, ok := snap.Book.BestBid(); ok {
		msg += fmt.Sprintf(" | bid %.2f", bid.Price)
	}
	if ask, ok := snap.Book.BestAsk(); ok {
		msg += fmt.Sprintf(" | ask %.2f", ask.Price)
	}
	return msg
}
