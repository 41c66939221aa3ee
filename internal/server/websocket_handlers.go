package server

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles WebSocket connections for the live feed.
// Connections are read-only from the client's perspective: the server pushes
// feed events, the client only sends pings.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		// Get userID from context locals (set by WebSocketAuthRequired)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		log.Printf("WebSocket: User %d connected to feed (%d total)", userID, s.hub.ConnCount())

		// Greet the client so it knows the stream is live
		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"user_id":      userID,
				"connected_at": time.Now().UTC().Format(time.RFC3339Nano),
			},
		})
		client.TrySend(welcome)

		// Start pumps; ReadPump blocks until the connection drops
		go client.WritePump()
		client.ReadPump()

		log.Printf("WebSocket: User %d disconnected from feed", userID)
	})
}
