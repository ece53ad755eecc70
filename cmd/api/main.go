package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/graficabr/printshop-core/internal/account/repo"
	"github.com/graficabr/printshop-core/internal/router"
	"github.com/graficabr/printshop-core/internal/schema"
	"github.com/graficabr/printshop-core/pkg/database"
	"github.com/graficabr/printshop-core/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting grafica-core")

	// open the storage file, creating it and its directory on first run
	store, err := database.Connect(database.ConfigFromEnv(), sugar)
	if err != nil {
		sugar.Fatalf("storage open: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// make sure the tables exist before serving
	if err := repo.NewAccountRepo(store.DB()).EnsureTable(ctx); err != nil {
		sugar.Fatalf("ensure accounts table: %v", err)
	}
	if err := schema.EnsureAll(ctx, store); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8431"
	}

	handler := router.RegisterRoutes(sugar, store.DB())
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		sugar.Infow("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
