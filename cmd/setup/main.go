package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/graficabr/printshop-core/internal/account"
	"github.com/graficabr/printshop-core/internal/account/repo"
	"github.com/graficabr/printshop-core/internal/schema"
	"github.com/graficabr/printshop-core/pkg/database"
	"github.com/graficabr/printshop-core/pkg/utilities"
)

// setup bootstraps the storage file: creates every table and seeds a default
// admin plus a small sample catalog so the application opens with data to
// show. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	sugar.Info("bootstrapping grafica-core storage")

	store, err := database.Connect(database.ConfigFromEnv(), sugar)
	if err != nil {
		sugar.Fatalf("storage open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	accountRepo := repo.NewAccountRepo(store.DB())
	if err := accountRepo.EnsureTable(ctx); err != nil {
		sugar.Fatalf("ensure accounts table: %v", err)
	}
	if err := schema.EnsureAll(ctx, store); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}
	sugar.Infow("tables ready", "tables", append([]string{"accounts"}, schema.Tables()...))

	if err := seed(ctx, store, accountRepo, sugar); err != nil {
		sugar.Fatalf("seed: %v", err)
	}

	sugar.Info("bootstrap complete")
}

func seed(ctx context.Context, store *database.Store, accountRepo *repo.AccountRepo, sugar *zap.SugaredLogger) error {
	svc := account.NewService(store.DB(), accountRepo, sugar)

	// default admin only when the store is empty
	if svc.Count(ctx) == 0 {
		id, err := svc.Create(ctx, "Administrador", "admin@grafica.com", "admin123", "admin")
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		sugar.Infow("default admin created", "id", id, "email", "admin@grafica.com")
	} else {
		sugar.Info("accounts present, skipping admin seed")
	}

	rows, err := store.Run(ctx, "SELECT COUNT(*) AS n FROM clients")
	if err != nil {
		return fmt.Errorf("inspect clients: %w", err)
	}
	if len(rows) > 0 {
		if n, ok := rows[0]["n"].(int64); ok && n > 0 {
			sugar.Info("catalog present, skipping sample seed")
			return nil
		}
	}

	if err := store.RunBatch(ctx,
		`INSERT INTO clients (name, company, email, phone, city, state) VALUES (?, ?, ?, ?, ?, ?)`,
		[][]any{
			{"Carlos Mendes", "Mendes Publicidade", "carlos@mendespub.com", "11 98888-1001", "São Paulo", "SP"},
			{"Fernanda Rocha", "", "fernanda.rocha@gmail.com", "21 97777-2002", "Rio de Janeiro", "RJ"},
		}); err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}

	if err := store.RunBatch(ctx,
		`INSERT INTO materials (name, category, unit, unit_price, stock_level, stock_minimum) VALUES (?, ?, ?, ?, ?, ?)`,
		[][]any{
			{"Papel couché 170g A3", "papel", "fl", 1.20, 500, 100},
			{"Tinta CMYK kit", "tinta", "un", 189.90, 8, 2},
			{"Lona 440g", "lona", "m2", 22.50, 60, 10},
		}); err != nil {
		return fmt.Errorf("seed materials: %w", err)
	}

	quoteNumber := utilities.NewQuoteNumber()
	if _, err := store.Run(ctx,
		`INSERT INTO quotes (quote_number, client_id, service_description, quantity, unit_value, total_value, status)
		 VALUES (?, 1, 'Cartões de visita 4x4, 1000 un', 1000, 0.18, 180.00, 'pending')`,
		quoteNumber); err != nil {
		return fmt.Errorf("seed quote: %w", err)
	}
	sugar.Infow("sample quote created", "quote_number", quoteNumber)

	return nil
}
