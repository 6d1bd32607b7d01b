package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/msto63/botlang/foundation/botlang/diag"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/internal/host"
	"github.com/msto63/botlang/internal/journal"
	"github.com/msto63/botlang/pkg/core/cache"
	"github.com/msto63/botlang/pkg/core/logging"
)

// WebSocket upgrader with permissive settings for local simulations
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage represents a client message
type WSMessage struct {
	Type    string          `json:"type"`    // "tick", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// TickPayload carries the sensor state of one simulation step
type TickPayload struct {
	Tick    int                    `json:"tick,omitempty"`
	Sensors map[string]interface{} `json:"sensors"`
}

// WSResponse represents a server message
type WSResponse struct {
	Type    string      `json:"type"`    // "action", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// ActionPayload is the decision for one tick
type ActionPayload struct {
	Tick     int         `json:"tick"`
	Action   string      `json:"action"`
	Explicit bool        `json:"explicit"`
	Result   interface{} `json:"result"`
}

// ErrorPayload represents an error reply
type ErrorPayload struct {
	Tick       int    `json:"tick,omitempty"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Kind       string `json:"kind,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// WebSocketHandler evaluates the bot script once per tick message
type WebSocketHandler struct {
	bot         *host.Bot
	defaults    interpreter.Sensors
	journal     journal.Store
	tickTimeout time.Duration
	logger      *logging.Logger

	// decisions memoizes results by sensor state (optional)
	decisions *cache.Cache[*host.Decision]
}

// NewWebSocketHandler creates a new WebSocket handler. store may be nil.
func NewWebSocketHandler(bot *host.Bot, defaults interpreter.Sensors, store journal.Store, tickTimeout time.Duration, logger *logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		bot:         bot,
		defaults:    defaults,
		journal:     store,
		tickTimeout: tickTimeout,
		logger:      logger,
	}
}

// WithDecisionCache makes the handler reuse decisions for repeated sensor
// states. Only valid for scripts without side effects.
func (h *WebSocketHandler) WithDecisionCache(c *cache.Cache[*host.Decision]) *WebSocketHandler {
	h.decisions = c
	return h
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection serves one bot session. Ticks are evaluated in arrival
// order, one at a time.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	session := uuid.NewString()
	logger := h.logger.With("session", session)
	logger.Info("WebSocket session established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	ticks := 0
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "error", err)
			} else {
				logger.Info("WebSocket session closed", "ticks", ticks)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		switch msg.Type {
		case "ping":
			h.sendResponse(conn, logger, WSResponse{Type: "pong", Payload: nil})

		case "tick":
			var payload TickPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, logger, ErrorPayload{Code: string(boterror.CodeInvalidMessage), Message: "invalid tick payload"})
				continue
			}
			ticks++
			if payload.Tick == 0 {
				payload.Tick = ticks
			}
			h.sendResponse(conn, logger, h.handleTick(ctx, logger, payload))

		default:
			h.sendError(conn, logger, ErrorPayload{Code: string(boterror.CodeInvalidMessage), Message: "unknown message type: " + msg.Type})
		}
	}
}

// handleTick evaluates the script for one tick and builds the reply
func (h *WebSocketHandler) handleTick(ctx context.Context, logger *logging.Logger, payload TickPayload) WSResponse {
	snapshot, err := host.FromTable(payload.Sensors)
	if err != nil {
		return errorResponse(payload.Tick, err)
	}
	snapshot.Tick = payload.Tick
	snapshot.Sensors = host.Merge(h.defaults, snapshot.Sensors)

	if h.tickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.tickTimeout)
		defer cancel()
	}

	started := time.Now()
	decision, err := h.decide(ctx, snapshot)
	h.record(ctx, logger, started, decision, err)
	if err != nil {
		logger.Debug("tick failed", "tick", payload.Tick, "error", err.Error())
		return errorResponse(payload.Tick, err)
	}

	logger.Debug("tick decided", "tick", payload.Tick, "action", decision.Action.String())
	return WSResponse{
		Type: "action",
		Payload: ActionPayload{
			Tick:     payload.Tick,
			Action:   string(decision.Action),
			Explicit: decision.Explicit,
			Result:   interpreter.ToGo(decision.Result),
		},
	}
}

// decide evaluates the bot, consulting the decision cache when configured.
// Failed runs are not cached.
func (h *WebSocketHandler) decide(ctx context.Context, snapshot *host.Snapshot) (*host.Decision, error) {
	if h.decisions == nil {
		return h.bot.Decide(ctx, snapshot)
	}
	return h.decisions.GetOrSet(decisionKey(snapshot.Sensors), func() (*host.Decision, error) {
		return h.bot.Decide(ctx, snapshot)
	})
}

// decisionKey is a canonical form of a sensor state
func decisionKey(sensors interpreter.Sensors) string {
	var b strings.Builder
	for _, name := range sensors.Names() {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(interpreter.Repr(sensors[name]))
		b.WriteByte(0)
	}
	return b.String()
}

func (h *WebSocketHandler) record(ctx context.Context, logger *logging.Logger, started time.Time, decision *host.Decision, err error) {
	if h.journal == nil {
		return
	}
	var result interpreter.Value
	if decision != nil {
		result = decision.Result
	}
	run := journal.NewRun(h.bot.Filename(), h.bot.Source(), started, result, err)
	if decision != nil && !decision.Explicit {
		run.Action = decision.Action.String()
	}
	if err := h.journal.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record run", "error", err)
	}
}

func errorResponse(tick int, err error) WSResponse {
	payload := ErrorPayload{
		Tick:    tick,
		Code:    string(boterror.GetCode(diag.ToBotError(err))),
		Message: err.Error(),
	}
	if kind, ok := diag.KindOf(err); ok {
		payload.Kind = kind.String()
		payload.Diagnostic = diag.Render(err)
	}
	return WSResponse{Type: "error", Payload: payload}
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, logger *logging.Logger, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		logger.Error("WebSocket send error", "error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, logger *logging.Logger, payload ErrorPayload) {
	h.sendResponse(conn, logger, WSResponse{Type: "error", Payload: payload})
}
