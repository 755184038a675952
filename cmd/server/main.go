package main

import (
	"context"
	"errors"
	"expert-directory-service/internal/adapters/repositories"
	"expert-directory-service/internal/api"
	"expert-directory-service/internal/app"
	"expert-directory-service/internal/config"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It loads configuration, wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config/config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWire(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, w, cfg.Database.SeedPath); err != nil {
		log.Fatal(err)
	}

	if w.Search.Geocoder == nil {
		log.Println("Remote geocoder disabled (set ORS_API_KEY to enable)")
	}

	router := api.NewRouter(w.Search)

	t := cfg.Server.Timeouts
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: t.ReadHeader,
		ReadTimeout:       t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s driver=%s", cfg.Server.Port, cfg.Database.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, w *app.Wire, seedPath string) error {
	if err := repositories.InitSchema(ctx, w.DB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, w.DB, w.Dialect, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("Seeded experts count=%d", n)

	return nil
}
