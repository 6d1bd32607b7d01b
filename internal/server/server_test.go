package server

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

	"github.com/msto63/botlang/foundation/botlang"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	boterror "github.com/msto63/botlang/foundation/core/error"
	botlog "github.com/msto63/botlang/foundation/core/log"
	"github.com/msto63/botlang/internal/host"
	"github.com/msto63/botlang/internal/journal"
	"github.com/msto63/botlang/pkg/core/logging"
)

const script = `
def decide(front):
    if front == "ENEMY" then return $ATTACK
    if front == "WALL" then return $TURN_RIGHT
    return $MOVE
end

if _HEALTH < 10 then return 1 / 0
return decide(_FRONT_NEIGHBOR)
`

type testServer struct {
	http    *httptest.Server
	server  *Server
	journal *journal.MemoryStore
}

func newTestServer(t *testing.T, source string) *testServer {
	t.Helper()
	return newTestServerWith(t, source, nil)
}

func newTestServerWith(t *testing.T, source string, configure func(*Config)) *testServer {
	t.Helper()
	engine := botlang.NewEngine(botlang.Options{Logger: botlog.Discard(), Output: &bytes.Buffer{}})
	bot, err := host.Compile(engine, "bot.bl", source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	store := journal.NewMemoryStore()
	cfg := DefaultConfig()
	cfg.Bot = bot
	cfg.Defaults = interpreter.Sensors{"_HEALTH": interpreter.Number(100)}
	cfg.Journal = store
	cfg.TickTimeout = 200 * time.Millisecond
	cfg.Logger = logging.Wrap(botlog.Discard(), "test")
	if configure != nil {
		configure(&cfg)
	}

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{http: ts, server: srv, journal: store}
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type reply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func exchange(t *testing.T, conn *websocket.Conn, msg interface{}) reply {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var r reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return r
}

func tick(sensors map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "tick", "payload": map[string]interface{}{"sensors": sensors}}
}

func TestTickDecisions(t *testing.T) {
	ts := newTestServer(t, script)
	conn := ts.dial(t)

	tests := []struct {
		front    string
		expected string
	}{
		{"ENEMY", "ATTACK"},
		{"WALL", "TURN_RIGHT"},
		{"EMPTY", "MOVE"},
	}

	for i, tt := range tests {
		r := exchange(t, conn, tick(map[string]interface{}{"_FRONT_NEIGHBOR": tt.front}))
		if r.Type != "action" {
			t.Fatalf("Expected action reply, got %s: %s", r.Type, r.Payload)
		}
		var payload ActionPayload
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Action != tt.expected || !payload.Explicit {
			t.Errorf("%s: expected %s, got %+v", tt.front, tt.expected, payload)
		}
		if payload.Tick != i+1 {
			t.Errorf("Expected tick %d, got %d", i+1, payload.Tick)
		}
		if payload.Result != "$"+tt.expected {
			t.Errorf("Expected result $%s, got %v", tt.expected, payload.Result)
		}
	}

	stats, _ := ts.journal.Stats(context.Background())
	if stats.Total != 3 || stats.ByAction["$ATTACK"] != 1 {
		t.Errorf("Expected 3 journaled runs, got %+v", stats)
	}
}

func TestTickErrors(t *testing.T) {
	ts := newTestServer(t, script)
	conn := ts.dial(t)

	tests := []struct {
		name string
		msg  interface{}
		code string
		kind string
	}{
		{"runtime error", tick(map[string]interface{}{"_FRONT_NEIGHBOR": "ENEMY", "_HEALTH": 1}), string(boterror.CodeBotlangRuntime), "DivisionByZero"},
		{"missing sensor", tick(map[string]interface{}{}), string(boterror.CodeBotlangRuntime), "UndefinedName"},
		{"bad sensor name", tick(map[string]interface{}{"FRONT": "ENEMY"}), string(boterror.CodeInvalidInput), ""},
		{"bad payload", map[string]interface{}{"type": "tick", "payload": "nope"}, string(boterror.CodeInvalidMessage), ""},
		{"unknown type", map[string]interface{}{"type": "hello"}, string(boterror.CodeInvalidMessage), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := exchange(t, conn, tt.msg)
			if r.Type != "error" {
				t.Fatalf("Expected error reply, got %s: %s", r.Type, r.Payload)
			}
			var payload ErrorPayload
			if err := json.Unmarshal(r.Payload, &payload); err != nil {
				t.Fatalf("invalid payload: %v", err)
			}
			if payload.Code != tt.code || payload.Kind != tt.kind {
				t.Errorf("Expected %s/%s, got %+v", tt.code, tt.kind, payload)
			}
			if tt.kind != "" && !strings.Contains(payload.Diagnostic, "^") {
				t.Errorf("Expected caret diagnostic, got %q", payload.Diagnostic)
			}
		})
	}

	failed, _ := ts.journal.Query(context.Background(), journal.Filter{ErrorsOnly: true})
	if len(failed) != 2 {
		t.Errorf("Expected 2 failed runs in the journal, got %d", len(failed))
	}
}

func TestTickTimeout(t *testing.T) {
	ts := newTestServer(t, "while true then 1")
	conn := ts.dial(t)

	r := exchange(t, conn, tick(nil))
	var payload ErrorPayload
	json.Unmarshal(r.Payload, &payload)
	if r.Type != "error" || payload.Code != string(boterror.CodeTimeout) {
		t.Errorf("Expected TIMEOUT error, got %s %+v", r.Type, payload)
	}
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, "$IDLE")
	conn := ts.dial(t)

	if r := exchange(t, conn, map[string]string{"type": "ping"}); r.Type != "pong" {
		t.Errorf("Expected pong, got %s", r.Type)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, "$IDLE")

	resp, err := http.Get(ts.http.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "healthy" || len(body.Checks) != 2 {
		t.Errorf("Unexpected health body %+v", body)
	}
}

func TestNewRequiresBot(t *testing.T) {
	if _, err := New(DefaultConfig()); !boterror.HasCode(err, boterror.CodeValidationFailed) {
		t.Errorf("Expected VALIDATION_FAILED, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	engine := botlang.NewEngine(botlang.Options{Logger: botlog.Discard()})
	bot, _ := host.Compile(engine, "bot.bl", "$IDLE")
	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.Bot = bot
	cfg.Logger = logging.Wrap(botlog.Discard(), "test")
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestDecisionCache(t *testing.T) {
	ts := newTestServerWith(t, script, func(cfg *Config) {
		cfg.DecisionCacheTTL = time.Minute
	})
	conn := ts.dial(t)

	for i := 0; i < 3; i++ {
		r := exchange(t, conn, tick(map[string]interface{}{"_FRONT_NEIGHBOR": "ENEMY"}))
		var payload ActionPayload
		json.Unmarshal(r.Payload, &payload)
		if payload.Action != "ATTACK" || payload.Tick != i+1 {
			t.Errorf("tick %d: unexpected reply %+v", i+1, payload)
		}
	}
	exchange(t, conn, tick(map[string]interface{}{"_FRONT_NEIGHBOR": "ENEMY", "_HEALTH": 1}))
	exchange(t, conn, tick(map[string]interface{}{"_FRONT_NEIGHBOR": "ENEMY", "_HEALTH": 1}))

	if hits, misses, _ := ts.server.decisions.Stats(); hits != 2 || misses != 3 {
		t.Errorf("Expected 2 hits and 3 misses, got %d/%d", hits, misses)
	}
	stats, _ := ts.journal.Stats(context.Background())
	if stats.Total != 5 || stats.Failed != 2 {
		t.Errorf("Expected every tick journaled, got %+v", stats)
	}

	report := ts.server.HealthRegistry().CheckWithTimeout(time.Second)
	if len(report.Checks) != 3 {
		t.Errorf("Expected decision_cache health check, got %d checks", len(report.Checks))
	}
}

func TestDecisionCacheSkipsPrint(t *testing.T) {
	ts := newTestServerWith(t, "print(_FRONT_NEIGHBOR)\n$MOVE", func(cfg *Config) {
		cfg.DecisionCacheTTL = time.Minute
	})
	if ts.server.decisions != nil {
		t.Error("Expected cache to stay disabled for a script calling print")
	}
}

func TestDecisionKey(t *testing.T) {
	a := decisionKey(interpreter.Sensors{"_A": interpreter.String("1"), "_B": interpreter.Number(1)})
	b := decisionKey(interpreter.Sensors{"_B": interpreter.Number(1), "_A": interpreter.String("1")})
	c := decisionKey(interpreter.Sensors{"_A": interpreter.Number(1), "_B": interpreter.Number(1)})
	if a != b {
		t.Error("Expected key to be independent of map order")
	}
	if a == c {
		t.Error("Expected string and number values to differ")
	}
}
