package api

import (
	"log"
	"net/http"
	"photo-server/internal/websocket"
	"strconv"
)

// ServeWsHandler upgrades the connection and subscribes it to the gallery
// events of the announced user id. The id is client-supplied, consistent
// with the trust model of the rest of the API.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("user_id")
	if userIDStr == "" {
		log.Println("WS connection attempt without user_id")
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		log.Printf("WS connection attempt with invalid user_id: %v", err)
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, userID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
