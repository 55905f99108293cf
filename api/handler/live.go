package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/use-agent/distill/modellimit"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/token"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		// The endpoint sits behind the API-key middleware; origin
		// checking adds nothing for non-browser clients.
		return true
	},
}

// liveFrame is an incoming frame. Clients may send either a bare text
// payload or a JSON object {"text": "..."}.
type liveFrame struct {
	Text string `json:"text"`
}

// Live returns a handler for GET /api/v1/live.
//
// Upgrades to a websocket and answers every text frame with the stats
// response for that frame's text, so editors can show live measurements
// while the user types without re-posting to /stats.
func Live(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the HTTP error response.
			slog.Warn("live: websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		m.RecordRequest("live", "connected")

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				// Normal closure or network error; either way the
				// session is over.
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			text := string(data)
			var frame liveFrame
			if json.Unmarshal(data, &frame) == nil && frame.Text != "" {
				text = frame.Text
			}

			stats := token.ComputeStats(text)
			reply := models.StatsResponse{
				Success: true,
				Stats:   stats,
				Models:  modellimit.Usage(stats.TokensAdvanced),
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}
}
