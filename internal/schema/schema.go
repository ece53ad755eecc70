package schema

import (
	"context"
	"fmt"

	"github.com/graficabr/printshop-core/pkg/database"
)

// DDL for the print-shop tables surrounding the account module. Only
// accounts has module logic behind it; these exist so the storage file is a
// complete store for the collaborating application. This is bootstrap, not a
// migration system: every statement is idempotent.
var statements = []struct {
	table string
	ddl   string
}{
	{"clients", `
CREATE TABLE IF NOT EXISTS clients (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name VARCHAR(100) NOT NULL,
  company VARCHAR(100),
  email VARCHAR(100),
  phone VARCHAR(20),
  address TEXT,
  city VARCHAR(50),
  state VARCHAR(2),
  postal_code VARCHAR(10),
  tax_id VARCHAR(20) UNIQUE,
  notes TEXT,
  active BOOLEAN DEFAULT 1,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`},
	{"materials", `
CREATE TABLE IF NOT EXISTS materials (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name VARCHAR(100) NOT NULL,
  description TEXT,
  category VARCHAR(50),
  unit VARCHAR(10) DEFAULT 'un',
  unit_price DECIMAL(10,2) DEFAULT 0.00,
  stock_level INTEGER DEFAULT 0,
  stock_minimum INTEGER DEFAULT 0,
  supplier VARCHAR(100),
  barcode VARCHAR(50),
  active BOOLEAN DEFAULT 1,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`},
	{"quotes", `
CREATE TABLE IF NOT EXISTS quotes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  quote_number VARCHAR(32) UNIQUE NOT NULL,
  client_id INTEGER NOT NULL,
  service_description TEXT NOT NULL,
  quantity INTEGER DEFAULT 1,
  unit_value DECIMAL(10,2) DEFAULT 0.00,
  total_value DECIMAL(10,2) DEFAULT 0.00,
  delivery_date DATE,
  status VARCHAR(20) DEFAULT 'pending',
  notes TEXT,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  approved_at DATETIME,
  expires_at DATETIME,
  account_id INTEGER,
  FOREIGN KEY (client_id) REFERENCES clients(id),
  FOREIGN KEY (account_id) REFERENCES accounts(id)
)`},
	{"payments", `
CREATE TABLE IF NOT EXISTS payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  quote_id INTEGER NOT NULL,
  amount DECIMAL(10,2) NOT NULL,
  method VARCHAR(30) DEFAULT 'cash',
  status VARCHAR(20) DEFAULT 'pending',
  due_date DATE,
  paid_at DATETIME,
  notes TEXT,
  receipt_number VARCHAR(50),
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  account_id INTEGER,
  FOREIGN KEY (quote_id) REFERENCES quotes(id),
  FOREIGN KEY (account_id) REFERENCES accounts(id)
)`},
	{"production_orders", `
CREATE TABLE IF NOT EXISTS production_orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  quote_id INTEGER NOT NULL,
  status VARCHAR(30) DEFAULT 'waiting',
  started_at DATETIME,
  finished_at DATETIME,
  notes TEXT,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  account_id INTEGER,
  FOREIGN KEY (quote_id) REFERENCES quotes(id),
  FOREIGN KEY (account_id) REFERENCES accounts(id)
)`},
}

// EnsureAll creates the surrounding tables through the statement gateway.
// The accounts table itself is owned by the account repository.
func EnsureAll(ctx context.Context, store *database.Store) error {
	for _, s := range statements {
		if _, err := store.Run(ctx, s.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", s.table, err)
		}
	}
	return nil
}

// Tables lists the table names managed by EnsureAll.
func Tables() []string {
	names := make([]string, 0, len(statements))
	for _, s := range statements {
		names = append(names, s.table)
	}
	return names
}
