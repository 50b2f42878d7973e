package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tycoon/internal/config"
	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/engine"
	"github.com/udisondev/tycoon/internal/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const stoneMastery = "mining-mining-stone-mastery"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func newTestServer(t *testing.T, cfg config.HTTPConfig, hub *Hub) (*Server, *engine.Engine) {
	t.Helper()
	require.NoError(t, data.LoadSkillTrees())

	eng := engine.New(engine.DefaultConfig(), t0, engine.WithRand(engine.NewSeededRand(1)))
	return NewServer(cfg, eng, hub), eng
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, env := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"healthy"`)
}

func TestGetState(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, env := do(t, s, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, model.NoSpecialization, snap.Active)
	assert.Equal(t, float64(data.StartingMoney), snap.Resources.Get(model.Money))
}

func TestSetSpecialization(t *testing.T) {
	s, eng := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, _ := do(t, s, http.MethodPut, "/api/v1/specialization", map[string]string{"specialization": "Mining"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Mining, eng.ActiveSpecialization())

	rec, env := do(t, s, http.MethodPut, "/api/v1/specialization", map[string]string{"specialization": "minnig"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unknown_name", env.Error.Code)
	assert.Equal(t, "mining", env.Error.Suggestion)
	assert.Equal(t, model.Mining, eng.ActiveSpecialization())

	rec, env = do(t, s, http.MethodPut, "/api/v1/specialization", map[string]string{"spec": "mining"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", env.Error.Code)
}

func TestProductions(t *testing.T) {
	s, eng := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, env := do(t, s, http.MethodGet, "/api/v1/productions/stone_mining", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st engine.ProductionStatus
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.True(t, st.CanAffordUpgrade)
	assert.Equal(t, 1, st.State.Level)

	rec, env = do(t, s, http.MethodPost, "/api/v1/productions/stone_mining/upgrade", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, 2, st.State.Level)
	assert.Less(t, eng.Snapshot().Resources.Get(model.Money), float64(data.StartingMoney))

	rec, env = do(t, s, http.MethodGet, "/api/v1/productions/gold_mining", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestMarket(t *testing.T) {
	s, eng := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, env := do(t, s, http.MethodGet, "/api/v1/market/wood", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var q quoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, model.Wood, q.Resource)
	assert.Equal(t, 2.0, q.Buy)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/market/buy", tradeRequest{Resource: "wood", Amount: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := eng.Snapshot()
	assert.Equal(t, 5.0, snap.Resources.Get(model.Wood))
	assert.Equal(t, float64(data.StartingMoney)-10, snap.Resources.Get(model.Money))

	rec, _ = do(t, s, http.MethodPost, "/api/v1/market/sell", tradeRequest{Resource: "wood", Amount: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, eng.Snapshot().Resources.Get(model.Wood))

	rec, _ = do(t, s, http.MethodGet, "/api/v1/market/money", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "money is not tradable")

	rec, env = do(t, s, http.MethodGet, "/api/v1/market/wod", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "wood", env.Error.Suggestion)
}

func TestSkills(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, env := do(t, s, http.MethodGet, "/api/v1/skills/"+stoneMastery, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st engine.SkillNodeStatus
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.False(t, st.Allocated)
	assert.False(t, st.CanAllocate)
	assert.Equal(t, "no skill points available", st.Reason)

	// Without points the allocation is a no-op, not an error.
	rec, env = do(t, s, http.MethodPost, "/api/v1/skills/"+stoneMastery+"/allocate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.False(t, st.Allocated)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/skills/mining-mining-nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEffects(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultServer().HTTP, nil)

	rec, env := do(t, s, http.MethodGet, "/api/v1/effects?type=production_speed&target=stone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var eff effectResponse
	require.NoError(t, json.Unmarshal(env.Data, &eff))
	assert.Equal(t, model.EffectProductionSpeed, eff.Type)
	assert.Zero(t, eff.Value)

	rec, env = do(t, s, http.MethodGet, "/api/v1/effects?type=speed", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_name", env.Error.Code)
}

func TestCommandRateLimit(t *testing.T) {
	cfg := config.DefaultServer().HTTP
	cfg.CommandRate = 0.001
	cfg.CommandBurst = 2
	s, _ := newTestServer(t, cfg, nil)

	body := map[string]string{"specialization": "farming"}
	for i := 0; i < 2; i++ {
		rec, _ := do(t, s, http.MethodPut, "/api/v1/specialization", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env := do(t, s, http.MethodPut, "/api/v1/specialization", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", env.Error.Code)

	// Queries are not limited.
	rec, _ = do(t, s, http.MethodGet, "/api/v1/state", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckOrigin(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultServer().HTTP, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, s.checkOrigin(req))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestWebSocket_StateThenTicks(t *testing.T) {
	hub := NewHub()
	s, eng := newTestServer(t, config.DefaultServer().HTTP, hub)

	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan error, 1)
	go func() { hubDone <- hub.Run(ctx) }()

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, MessageState, msg.Type)
	assert.Nil(t, msg.Report)
	assert.Equal(t, float64(data.StartingMoney), msg.State.Resources.Get(model.Money))

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, eng.SetActiveSpecialization(model.Mining))
	rep := eng.Tick(t0.Add(2 * time.Second))
	hub.Broadcast(rep, eng.Snapshot())

	msg = readMessage(t, conn)
	assert.Equal(t, MessageTick, msg.Type)
	require.NotNil(t, msg.Report)
	assert.Equal(t, model.Mining, msg.Report.Active)
	assert.Equal(t, 2.0, msg.State.Resources.Get(model.Stone))

	cancel()
	select {
	case err := <-hubDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// The hub closes client queues on shutdown, which closes the socket.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Zero(t, hub.Clients())
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub()
	s, _ := newTestServer(t, config.DefaultServer().HTTP, hub)

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBroadcast_NeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*4; i++ {
			hub.Broadcast(engine.TickReport{At: t0}, engine.Snapshot{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
}
