package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"gridpath-server/api"
	"gridpath-server/config"
	"gridpath-server/server"
	"gridpath-server/store"
)

func main() {
	cfg := config.LoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runs := openStore(ctx, cfg)
	sessions := server.NewSessionManager(runs, cfg.TickInterval, cfg.SearchOptions()...)

	r := chi.NewRouter()
	if cfg.StaticDir != "" {
		static, err := server.StaticFileServer(cfg.StaticDir, "/index.html")
		if err != nil {
			log.Fatalf("static viewer: %v", err)
		}
		r.Handle("/*", static)
	}
	// Mount REST API under /api
	r.Mount("/api", api.NewAPIRouter(cfg, sessions))
	r.Route("/ws", server.NewWebSocketHandler(sessions, cfg.CORSOrigins).Routes)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	health := server.NewHealthServer()
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("grpc listen error: %v", err)
	}
	go func() {
		if err := health.Serve(lis); err != nil {
			log.Printf("grpc serve error: %v", err)
		}
	}()

	go func() {
		log.Printf("Server started on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	sessions.CloseAll()
	if err := runs.Close(shutdownCtx); err != nil {
		log.Printf("store close error: %v", err)
	}
}

// openStore connects to MongoDB when configured and falls back to memory.
func openStore(ctx context.Context, cfg config.Config) store.Store {
	if cfg.MongoURI == "" {
		log.Println("MONGO_URI not set; recording runs in memory")
		return store.NewMemoryStore()
	}
	s, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	log.Printf("Recording runs in MongoDB database %s", cfg.MongoDatabase)
	return s
}
