package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/yatramap/yatramap/internal/adapters/nats"
	"github.com/yatramap/yatramap/internal/pkg/metrics"
)

// wsMessage is sent from client to drive the plan cycle interactively.
type wsMessage struct {
	Action string   `json:"action"` // "plan" | "itinerary" | "focus" | "clear"
	Prompt string   `json:"prompt"` // for "plan"
	Places []string `json:"places"` // for "itinerary"
	Name   string   `json:"name"`   // for "focus"
}

// WebSocketHandler returns a handler that upgrades to WebSocket, relays every
// render-command frame published on NATS to the client, and accepts plan
// actions back. The browser never draws anything the pipeline did not emit.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		writeRaw := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return writeRaw(data)
		}

		if deps.NATS == nil {
			_ = writeJSON(map[string]string{"error": "render relay unavailable"})
			return
		}

		// Every broadcast render frame goes to every connected client. The
		// durable command stream is consumed once per instance and fanned
		// out on the broadcast subject.
		sub, err := deps.NATS.Subscribe(natsadapter.BroadcastSubject, func(msg *nats.Msg) {
			_ = writeRaw(msg.Data)
		})
		if err != nil {
			slog.Error("ws render subscribe failed", "error", err)
			return
		}
		defer func() { _ = sub.Unsubscribe() }()

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "plan":
				// Render output arrives via the NATS relay; only errors are
				// reported back on this socket.
				go func(prompt string) {
					ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
					defer cancel()
					if _, err := deps.Plans.PlanFromPrompt(ctx, prompt); err != nil {
						_ = writeJSON(map[string]string{"error": err.Error()})
					}
				}(m.Prompt)

			case "itinerary":
				go func(places []string) {
					ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
					defer cancel()
					if _, err := deps.Plans.PlanFromPlaces(ctx, places); err != nil {
						_ = writeJSON(map[string]string{"error": err.Error()})
					}
				}(m.Places)

			case "focus":
				if !deps.Plans.Focus(m.Name) {
					_ = writeJSON(map[string]string{"error": "no rendered place matches: " + m.Name})
				}

			case "clear":
				deps.Plans.ClearMap()

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
