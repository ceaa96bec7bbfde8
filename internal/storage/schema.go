package storage

// Both dialects share one query shape: string ids, epoch-millisecond
// timestamps, `?` placeholders. Only the DDL differs.

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  item_code TEXT NOT NULL UNIQUE,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  low_stock_threshold INTEGER NOT NULL DEFAULT 10 CHECK (low_stock_threshold >= 0),
  category TEXT,
  expiry_date INTEGER,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_category   ON items(category);
CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);

CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  sale_date INTEGER NOT NULL,
  total_amount NUMERIC NOT NULL CHECK (total_amount >= 0),
  payment_method TEXT NOT NULL CHECK (payment_method IN ('cash','credit','mobile_payment')),
  customer_name TEXT,
  invoice_number TEXT NOT NULL UNIQUE,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);

CREATE TABLE IF NOT EXISTS sale_line_items(
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL REFERENCES sales(id),
  item_id TEXT NOT NULL REFERENCES items(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_line_items_sale ON sale_line_items(sale_id);
CREATE INDEX IF NOT EXISTS idx_sale_line_items_item ON sale_line_items(item_id);
`

const schemaMySQL = `
CREATE TABLE IF NOT EXISTS categories(
  id VARCHAR(36) PRIMARY KEY,
  name VARCHAR(255) NOT NULL UNIQUE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS items(
  id VARCHAR(36) PRIMARY KEY,
  name VARCHAR(255) NOT NULL,
  item_code VARCHAR(50) NOT NULL UNIQUE,
  price DOUBLE NOT NULL,
  stock_quantity INT NOT NULL DEFAULT 0,
  low_stock_threshold INT NOT NULL DEFAULT 10,
  category VARCHAR(255),
  expiry_date BIGINT,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  INDEX idx_items_category (category),
  INDEX idx_items_created_at (created_at)
);

CREATE TABLE IF NOT EXISTS sales(
  id VARCHAR(36) PRIMARY KEY,
  sale_date BIGINT NOT NULL,
  total_amount DOUBLE NOT NULL,
  payment_method VARCHAR(20) NOT NULL,
  customer_name VARCHAR(255),
  invoice_number VARCHAR(50) NOT NULL UNIQUE,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  INDEX idx_sales_sale_date (sale_date)
);

CREATE TABLE IF NOT EXISTS sale_line_items(
  id VARCHAR(36) PRIMARY KEY,
  sale_id VARCHAR(36) NOT NULL,
  item_id VARCHAR(36) NOT NULL,
  quantity INT NOT NULL,
  unit_price DOUBLE NOT NULL,
  total_price DOUBLE NOT NULL,
  INDEX idx_sale_line_items_sale (sale_id),
  INDEX idx_sale_line_items_item (item_id),
  FOREIGN KEY (sale_id) REFERENCES sales(id),
  FOREIGN KEY (item_id) REFERENCES items(id)
);
`
