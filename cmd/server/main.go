// @title           Photo Gallery API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"photo-server/internal/api"
	"photo-server/internal/config"
	"photo-server/internal/database"
	"photo-server/internal/gallery"
	"photo-server/internal/provider"
	"photo-server/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.Source)
	if err != nil {
		log.Fatalf("Invalid database connection string: %v", err)
	}
	if cfg.DB.Name != "" {
		poolCfg.ConnConfig.Database = cfg.DB.Name
	}

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Could not ping the database: %v", err)
	}
	log.Printf("Connected to database %s", cfg.DB.Name)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool, wsHub)
	gallerySvc := gallery.NewService(store)

	var aiGateway provider.Gateway
	gw, err := provider.New(context.Background(), cfg.AI)
	switch {
	case err == nil:
		aiGateway = gw
		log.Printf("AI gateway ready (provider: %s)", cfg.AI.Provider)
	case errors.Is(err, provider.ErrNotConfigured):
		log.Println("WARN: no AI provider API key configured; /load and /generate will be unavailable")
	default:
		log.Fatalf("Could not initialize AI gateway: %v", err)
	}

	server := api.NewServer(cfg, store, gallerySvc, aiGateway, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Photo gallery server is running. Documentation is available under /swagger/index.html"))
	})

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", server.ServeWsHandler)

	r.Post("/register", server.RegisterHandler)
	r.Post("/login", server.LoginHandler)
	r.Post("/load", server.LoadHandler)
	r.Get("/images", server.ListImagesHandler)
	r.Delete("/images/{imageId}", server.DeleteImageHandler)
	r.Get("/generate", server.GenerateHandler)
	r.Get("/events", server.GetEventsHandler)

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.Fatalf("Could not start the server: %v", err)
	}
}
