package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"zyntra/internal/models"
	"zyntra/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

type fakeMarket struct {
	snap models.Snapshot
	ok   bool
}

func (f fakeMarket) Latest() (models.Snapshot, bool) { return f.snap, f.ok }

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	state := service.NewState()
	mux := NewMux(state, fakeMarket{})

	require.Equal(t, http.StatusOK, get(t, mux, "/livez").Code)
	require.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/readyz").Code)

	state.SetReady(true)
	require.Equal(t, http.StatusOK, get(t, mux, "/readyz").Code)
}

func TestHealthz(t *testing.T) {
	state := service.NewState()
	state.TouchTick(time.Unix(1700000000, 0))
	state.ClientConnected()
	state.ClientConnected()
	state.ClientGone()

	mux := NewMux(state, fakeMarket{ok: true, snap: models.Snapshot{Symbol: "BTC", Price: 45000.5}})
	rec := get(t, mux, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		WSClients    int64   `json:"wsClients"`
		LastTickUnix int64   `json:"lastTickUnix"`
		Symbol       string  `json:"symbol"`
		Price        float64 `json:"price"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(1), body.WSClients)
	require.Equal(t, int64(1700000000), body.LastTickUnix)
	require.Equal(t, "BTC", body.Symbol)
	require.Equal(t, 45000.5, body.Price)
}
