package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inamate/flowcanvas/internal/auth"
	"github.com/inamate/flowcanvas/internal/collab"
	"github.com/inamate/flowcanvas/internal/config"
	"github.com/inamate/flowcanvas/internal/db"
	"github.com/inamate/flowcanvas/internal/framing"
	mw "github.com/inamate/flowcanvas/internal/middleware"
	"github.com/inamate/flowcanvas/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scroll states live in Postgres when configured, in memory otherwise.
	var store session.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			slog.Error("migrate database", "error", err)
			os.Exit(1)
		}
		store = session.NewPostgresStore(pool)
	} else {
		slog.Warn("DATABASE_URL not set, scroll states are kept in memory")
		store = session.NewMemoryStore()
	}

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	sessionHandler := session.NewHandler(session.NewService(store))
	framingHandler := framing.NewHandler(cfg.ViewportOptions())

	hub := collab.NewHub()
	go hub.Run(ctx)

	r := newRouter(routes{
		auth:           authService,
		authHandler:    authHandler,
		session:        sessionHandler,
		framing:        framingHandler,
		hub:            hub,
		origins:        cfg.Origins(),
		originPatterns: cfg.OriginPatterns(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// routes holds the handlers the router mounts.
type routes struct {
	auth           *auth.Service
	authHandler    *auth.Handler
	session        *session.Handler
	framing        *framing.Handler
	hub            *collab.Hub
	origins        []string
	originPatterns []string
}

func newRouter(rt routes) *mux.Router {
	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(rt.origins))

	// Auth routes (public)
	r.HandleFunc("/auth/guest", rt.authHandler.Guest).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Framing is stateless and public.
	r.HandleFunc("/framing", rt.framing.Frame).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(rt.auth.AuthMiddleware)
	rt.session.Register(api)

	// WebSocket endpoint
	r.HandleFunc("/ws/workflow/{workflowId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, rt.hub, rt.auth, rt.originPatterns)
	})

	return r
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, originPatterns []string) {
	workflowID := mux.Vars(r)["workflowId"]

	// Browsers cannot set headers on websocket upgrades, so the token
	// travels in the query string.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	user, err := authSvc.ParseToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, user.ID, user.DisplayName, workflowID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
