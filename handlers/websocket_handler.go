package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/padelhub/live-scoring/services"
	"github.com/padelhub/live-scoring/ws"
)

const wsRequestTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens via the CORS layer for the REST API;
		// scoreboard embeds connect from arbitrary origins.
		return true
	},
}

// WebSocketHandler upgrades connections and answers the inbound protocol.
// Every response to a parsed message goes only to the requesting socket;
// fan-out traffic arrives through the hub rooms.
type WebSocketHandler struct {
	hub          *ws.Hub
	matchService services.MatchService
	logger       *slog.Logger
}

func NewWebSocketHandler(hub *ws.Hub, ms services.MatchService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		matchService: ms,
		logger:       logger,
	}
}

func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	client := ws.NewClient(h.hub, conn, h.logger)
	h.hub.Register <- client

	client.SendJSON(ws.AckMessage{Type: ws.TypeWelcome, Payload: "connected"})

	go client.WritePump()
	go client.ReadPump(h)
}

// HandleMessage implements ws.MessageHandler.
func (h *WebSocketHandler) HandleMessage(client *ws.Client, msg ws.ClientMessage) {
	switch msg.Type {
	case ws.TypeSubscribe:
		h.handleSubscribe(client, msg)
	case ws.TypeUnsubscribe:
		h.hub.Unsubscribe(msg.MatchID, client)
		client.SendJSON(ws.AckMessage{
			Type:    ws.TypeUnsubscribed,
			Payload: fmt.Sprintf("unsubscribed from match %d", msg.MatchID),
		})
	case ws.TypeRequestStats:
		h.handleRequestStats(client, msg)
	default:
		client.SendJSON(ws.AckMessage{
			Type:    ws.TypeError,
			Payload: fmt.Sprintf("unknown message type %q", msg.Type),
		})
	}
}

func (h *WebSocketHandler) handleSubscribe(client *ws.Client, msg ws.ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), wsRequestTimeout)
	defer cancel()

	snapshot, err := h.matchService.GetSnapshot(ctx, msg.MatchID)
	if err != nil {
		client.SendJSON(ws.AckMessage{Type: ws.TypeError, Payload: wsErrorText(err, msg.MatchID)})
		return
	}

	h.hub.Subscribe(msg.MatchID, client)

	// Current state first, so the client never renders from a blank board.
	client.SendJSON(ws.NewMatchUpdate(*snapshot, nil))
	client.SendJSON(ws.AckMessage{
		Type:    ws.TypeSubscribed,
		Payload: fmt.Sprintf("subscribed to match %d", msg.MatchID),
	})
}

func (h *WebSocketHandler) handleRequestStats(client *ws.Client, msg ws.ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), wsRequestTimeout)
	defer cancel()

	switch msg.Subtype {
	case ws.StatsPlayer:
		stats, err := h.matchService.GetPlayerStats(ctx, msg.MatchID, msg.PlayerID)
		if err != nil {
			client.SendJSON(ws.AckMessage{Type: ws.TypeError, Payload: wsErrorText(err, msg.MatchID)})
			return
		}
		client.SendJSON(ws.StatsResponseMessage{
			Type:    ws.TypeStatsResponse,
			Subtype: ws.StatsPlayer,
			MatchID: msg.MatchID,
			Player:  stats,
		})

	case ws.StatsMatchSummary:
		summary, err := h.matchService.GetSummary(ctx, msg.MatchID)
		if err != nil {
			client.SendJSON(ws.AckMessage{Type: ws.TypeError, Payload: wsErrorText(err, msg.MatchID)})
			return
		}
		client.SendJSON(ws.StatsResponseMessage{
			Type:    ws.TypeStatsResponse,
			Subtype: ws.StatsMatchSummary,
			MatchID: msg.MatchID,
			Summary: summary,
		})

	default:
		client.SendJSON(ws.AckMessage{
			Type:    ws.TypeError,
			Payload: fmt.Sprintf("unknown stats subtype %q", msg.Subtype),
		})
	}
}

func wsErrorText(err error, matchID int) string {
	switch {
	case errors.Is(err, services.ErrMatchNotFound):
		return fmt.Sprintf("match %d not found", matchID)
	case errors.Is(err, services.ErrStatsNotFound):
		return fmt.Sprintf("stats not found for match %d", matchID)
	default:
		return "internal error"
	}
}
