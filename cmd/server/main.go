package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusmart/internal/catalog"
	"campusmart/internal/config"
	"campusmart/internal/hub"
	"campusmart/internal/repository/sqlite"
	"campusmart/internal/seed"
	"campusmart/internal/service"
)

func main() {
	// Command line flags override config file values
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	noSeed := flag.Bool("no-seed", false, "skip first-run catalog seeding")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting campusmart server...")

	cfg, cfgPath, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	}
	cfg.ApplyEnv()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *noSeed {
		cfg.Seed.Enabled = false
	}

	// Initialize event bus before the repository so every write
	// notifies it
	eventBus := service.NewEventBus()

	repoOpts := []sqlite.Option{sqlite.WithNotifier(eventBus)}
	if cfg.Database.LogRetention > 0 {
		repoOpts = append(repoOpts, sqlite.WithLogRetention(cfg.Database.LogRetention))
	}
	repo, err := sqlite.New(cfg.Database.Path, repoOpts...)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	if cfg.Seed.Enabled {
		seedPath := ""
		if cfg.Seed.Path != nil {
			seedPath = *cfg.Seed.Path
		}
		if err := seed.Apply(context.Background(), repo, seedPath); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run()

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(hub.EventChange, event)
		}
	}()

	// Storefront-wide catalog feed. Per-user enrichment happens in the
	// request handlers; this stream only tells clients when to refetch.
	storefront := catalog.NewAggregator(repo, eventBus, "")
	aggCtx, aggCancel := context.WithCancel(context.Background())
	go storefront.Run(aggCtx)
	go func() {
		for snap := range storefront.Subscribe() {
			sseHub.Broadcast(hub.EventCatalog, snap)
		}
	}()

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog", func(w http.ResponseWriter, r *http.Request) {
		snap, err := catalog.Compute(r.Context(), repo, r.URL.Query().Get("user"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, snap)
	})

	mux.HandleFunc("GET /api/catalog/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, err := catalog.Lookup(r.Context(), repo, r.URL.Query().Get("user"), r.PathValue("id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if item == nil {
			http.Error(w, "catalog item not found", http.StatusNotFound)
			return
		}
		writeJSON(w, item)
	})

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		version, err := repo.SchemaVersion(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"status": "ok", "schema_version": version})
	})

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	aggCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
