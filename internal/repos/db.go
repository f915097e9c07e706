package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single pooled connection also keeps
	// :memory: databases stable across calls
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo products if the DB is empty (idempotent; safe on every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure the owner account exists (idempotent)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products: stock is always in packages (ks); package_size says how many
-- grams/millilitres one package holds (0 = tracked in whole packages).
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL CHECK (category IN
    ('color','preliv','oxidant','bleach','care','styling','supplies','retail','other')),
  unit TEXT NOT NULL CHECK (unit IN ('ks','g','ml')),
  package_size REAL NOT NULL DEFAULT 0 CHECK (package_size >= 0),
  stock REAL NOT NULL DEFAULT 0 CHECK (stock >= 0),
  min_stock REAL NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Stock movements: append-only ledger. No FK to products on purpose; the
-- history must outlive a deleted product.
CREATE TABLE IF NOT EXISTS stock_movements(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  count REAL NOT NULL,
  type TEXT NOT NULL CHECK (type IN
    ('import','sale','consumption','visit','correction','manual')),
  date TEXT DEFAULT CURRENT_TIMESTAMP,
  note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_movements_product ON stock_movements(product_id);
CREATE INDEX IF NOT EXISTS idx_movements_date    ON stock_movements(date);

-- Clients
CREATE TABLE IF NOT EXISTS clients(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(LOWER(name));

-- Visits: blocks and the flat consumption list are stored as JSON blobs;
-- legacy rows may have blocks_json = '[]' with used_products_json filled.
CREATE TABLE IF NOT EXISTS visits(
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
  date TEXT NOT NULL,
  services TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  used_products_json TEXT NOT NULL DEFAULT '[]',
  blocks_json TEXT NOT NULL DEFAULT '[]',
  global_notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_visits_client ON visits(client_id);
CREATE INDEX IF NOT EXISTS idx_visits_date   ON visits(date);

-- Payments: visit_id empty for direct counter sales.
CREATE TABLE IF NOT EXISTS transactions(
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL DEFAULT '',
  client_name TEXT NOT NULL DEFAULT '',
  visit_id TEXT NOT NULL DEFAULT '',
  amount NUMERIC NOT NULL CHECK (amount >= 0),
  method TEXT NOT NULL CHECK (method IN ('cash','qr')),
  items TEXT NOT NULL DEFAULT '',
  date TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transactions_visit ON transactions(visit_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date  ON transactions(date);

-- Saved visit templates
CREATE TABLE IF NOT EXISTS service_templates(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  blocks_json TEXT NOT NULL DEFAULT '[]',
  global_notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('OWNER','STAFF')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/clients")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,brand,category,unit,package_size,stock,min_stock) VALUES
	  ('p-igora-7-0','Igora Royal 7-0','Schwarzkopf','color','g',60,5,2),
	  ('p-oxid-6','Oxygenta 6%','Schwarzkopf','oxidant','ml',1000,2,1),
	  ('p-blondor','Blondor Multi Blonde','Wella','bleach','g',800,1,1),
	  ('p-sampon-repair','BC Repair Shampoo','Schwarzkopf','retail','ml',250,6,2),
	  ('p-alobal','Kadeřnický alobal','','supplies','ks',0,3,1)`)

	tx.MustExec(`INSERT INTO clients(id,name,phone) VALUES
	  ('c-svobodova','Jana Svobodová','+420 601 111 222'),
	  ('c-novak','Petr Novák','+420 602 333 444')`)

	return tx.Commit()
}

// seedUsers ensures the owner login exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("Salonka1!"), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES('u-owner','majitelka@salonka.cz','Majitelka',?,'OWNER')
		ON CONFLICT(email) DO NOTHING
	`, string(h))
	return err
}
