package api

import (
	"encoding/json"
	"net/http"
	"photo-server/internal/config"
	"photo-server/internal/database"
	"photo-server/internal/gallery"
	"photo-server/internal/provider"
	"photo-server/internal/websocket"
)

type Server struct {
	config  *config.Config
	store   *database.Store
	gallery *gallery.Service
	ai      provider.Gateway
	wsHub   *websocket.Hub
}

// NewServer wires the handler set. ai may be nil when no provider key is
// configured; the AI endpoints then answer 500.
func NewServer(cfg *config.Config, store *database.Store, gallerySvc *gallery.Service, ai provider.Gateway, wsHub *websocket.Hub) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		gallery: gallerySvc,
		ai:      ai,
		wsHub:   wsHub,
	}
}

// @Summary      Health check
// @Tags         system
// @Success      200  {string}  string "ok"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
