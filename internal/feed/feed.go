package feed

import (
	"net/http"
	"time"
	"zyntra/internal/models"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Source: раннер: подписка с last-write-wins.
type Source interface {
	Subscribe() (<-chan models.Snapshot, func())
}

// Counter: учёт подключений для /healthz.
type Counter interface {
	ClientConnected()
	ClientGone()
}

// Feed пушит каждый снапшот клиенту JSON-фреймом. Медленный клиент просто
// пропускает промежуточные снапшоты: канал подписки на один слот.
type Feed struct {
	src      Source
	counter  Counter
	render   func(models.Snapshot) any
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func New(src Source, counter Counter, render func(models.Snapshot) any, log *zap.Logger) *Feed {
	if render == nil {
		render = func(s models.Snapshot) any { return s }
	}
	return &Feed{
		src:     src,
		counter: counter,
		render:  render,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// демо-клиент может жить на любом origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Debug("[FEED] upgrade failed", zap.Error(err))
		return
	}
	if f.counter != nil {
		f.counter.ClientConnected()
		defer f.counter.ClientGone()
	}

	snaps, unsub := f.src.Subscribe()
	defer unsub()

	closed := make(chan struct{})
	go f.readLoop(conn, closed)
	f.writeLoop(conn, snaps, closed)
}

// readLoop нужен только для pong и детекта закрытия: входящие сообщения игнорируются.
func (f *Feed) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(conn *websocket.Conn, snaps <-chan models.Snapshot, closed <-chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-closed:
			return
		case snap := <-snaps:
			frame, err := sonic.Marshal(f.render(snap))
			if err != nil {
				f.log.Warn("[FEED] marshal snapshot", zap.Error(err))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
