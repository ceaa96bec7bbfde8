package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"ministore/internal/domain"
)

// Dialect selects one of the two supported relational backends. Both share
// the same query shape; only the driver name and DDL differ.
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// SQLStore is the durable adapter. The sale-creation write path runs in a
// single transaction with guarded decrements, so check-then-deduct is
// serialized per item row by the database itself.
type SQLStore struct {
	db *sqlx.DB
}

func OpenSQL(dialect Dialect, dsn string) (*SQLStore, error) {
	var driver, schema string
	switch dialect {
	case DialectSQLite:
		driver, schema = "sqlite", schemaSQLite
	case DialectMySQL:
		driver, schema = "mysql", schemaMySQL
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Statement-at-a-time keeps bootstrap portable across drivers.
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return &SQLStore{db: db}, nil
}

// ---------- row types ----------

type itemRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	ItemCode          string         `db:"item_code"`
	Price             float64        `db:"price"`
	StockQuantity     int            `db:"stock_quantity"`
	LowStockThreshold int            `db:"low_stock_threshold"`
	Category          sql.NullString `db:"category"`
	ExpiryDate        sql.NullInt64  `db:"expiry_date"`
	CreatedAt         int64          `db:"created_at"`
	UpdatedAt         int64          `db:"updated_at"`
}

type saleRow struct {
	ID            string         `db:"id"`
	SaleDate      int64          `db:"sale_date"`
	TotalAmount   float64        `db:"total_amount"`
	PaymentMethod string         `db:"payment_method"`
	CustomerName  sql.NullString `db:"customer_name"`
	InvoiceNumber string         `db:"invoice_number"`
	CreatedAt     int64          `db:"created_at"`
	UpdatedAt     int64          `db:"updated_at"`
}

type lineRow struct {
	ID         string  `db:"id"`
	SaleID     string  `db:"sale_id"`
	ItemID     string  `db:"item_id"`
	Quantity   int     `db:"quantity"`
	UnitPrice  float64 `db:"unit_price"`
	TotalPrice float64 `db:"total_price"`
}

func (r itemRow) toDomain() domain.Item {
	it := domain.Item{
		ID:                r.ID,
		Name:              r.Name,
		ItemCode:          r.ItemCode,
		Price:             r.Price,
		StockQuantity:     r.StockQuantity,
		LowStockThreshold: r.LowStockThreshold,
		Category:          r.Category.String,
		CreatedAt:         time.UnixMilli(r.CreatedAt),
		UpdatedAt:         time.UnixMilli(r.UpdatedAt),
	}
	if r.ExpiryDate.Valid {
		t := time.UnixMilli(r.ExpiryDate.Int64)
		it.ExpiryDate = &t
	}
	return it
}

func (r saleRow) toDomain() domain.Sale {
	return domain.Sale{
		ID:            r.ID,
		SaleDate:      time.UnixMilli(r.SaleDate),
		TotalAmount:   r.TotalAmount,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		CustomerName:  r.CustomerName.String,
		InvoiceNumber: r.InvoiceNumber,
		CreatedAt:     time.UnixMilli(r.CreatedAt),
		UpdatedAt:     time.UnixMilli(r.UpdatedAt),
	}
}

func (r lineRow) toDomain() domain.SaleLineItem {
	return domain.SaleLineItem{
		ID:         r.ID,
		SaleID:     r.SaleID,
		ItemID:     r.ItemID,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		TotalPrice: r.TotalPrice,
	}
}

const itemCols = `id, name, item_code, price, stock_quantity, low_stock_threshold, category, expiry_date, created_at, updated_at`
const saleCols = `id, sale_date, total_amount, payment_method, customer_name, invoice_number, created_at, updated_at`
const lineCols = `id, sale_id, item_id, quantity, unit_price, total_price`

// ---------- items ----------

func (s *SQLStore) ListItems(p ListItemsParams) ([]domain.Item, int, error) {
	where, args := "", []any{}
	if p.Category != "" {
		where = ` WHERE category = ?`
		args = append(args, p.Category)
	}

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM items`+where, args...); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + itemCols + ` FROM items` + where + ` ORDER BY created_at DESC, id`
	if p.Limit > 0 {
		page := p.Page
		if page < 1 {
			page = 1
		}
		q += ` LIMIT ? OFFSET ?`
		args = append(args, p.Limit, (page-1)*p.Limit)
	}

	var rows []itemRow
	if err := s.db.Select(&rows, q, args...); err != nil {
		return nil, 0, err
	}
	out := make([]domain.Item, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, total, nil
}

func (s *SQLStore) GetItem(id string) (*domain.Item, error) {
	var r itemRow
	if err := s.db.Get(&r, `SELECT `+itemCols+` FROM items WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	it := r.toDomain()
	return &it, nil
}

func (s *SQLStore) GetItemByCode(code string) (*domain.Item, error) {
	var r itemRow
	err := s.db.Get(&r, `SELECT `+itemCols+` FROM items WHERE LOWER(item_code) = LOWER(?)`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	it := r.toDomain()
	return &it, nil
}

func (s *SQLStore) ListItemsByIDs(ids []string) (map[string]domain.Item, error) {
	if len(ids) == 0 {
		return map[string]domain.Item{}, nil
	}
	q, args, err := sqlx.In(`SELECT `+itemCols+` FROM items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := s.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Item, len(rows))
	for _, r := range rows {
		out[r.ID] = r.toDomain()
	}
	return out, nil
}

func (s *SQLStore) CreateItem(item *domain.Item) error {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM items WHERE LOWER(item_code) = LOWER(?)`, item.ItemCode); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO items(`+itemCols+`)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		item.ID, item.Name, item.ItemCode, item.Price, item.StockQuantity,
		item.LowStockThreshold, nullStr(item.Category), nullMillis(item.ExpiryDate),
		item.CreatedAt.UnixMilli(), item.UpdatedAt.UnixMilli())
	return err
}

func (s *SQLStore) UpdateItem(id string, patch ItemPatch) (*domain.Item, error) {
	cur, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	if patch.ItemCode != nil && !strings.EqualFold(*patch.ItemCode, cur.ItemCode) {
		var n int
		if err := s.db.Get(&n, `SELECT COUNT(*) FROM items WHERE LOWER(item_code) = LOWER(?) AND id <> ?`, *patch.ItemCode, id); err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domain.ErrConflict
		}
	}

	set := []string{"updated_at = ?"}
	args := []any{time.Now().UnixMilli()}
	if patch.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.ItemCode != nil {
		set = append(set, "item_code = ?")
		args = append(args, *patch.ItemCode)
	}
	if patch.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.StockQuantity != nil {
		set = append(set, "stock_quantity = ?")
		args = append(args, *patch.StockQuantity)
	}
	if patch.LowStockThreshold != nil {
		set = append(set, "low_stock_threshold = ?")
		args = append(args, *patch.LowStockThreshold)
	}
	if patch.Category != nil {
		set = append(set, "category = ?")
		args = append(args, nullStr(*patch.Category))
	}
	if patch.ExpiryDate != nil {
		set = append(set, "expiry_date = ?")
		args = append(args, patch.ExpiryDate.UnixMilli())
	} else if patch.ClearExpiryDate {
		set = append(set, "expiry_date = NULL")
	}
	args = append(args, id)

	if _, err := s.db.Exec(`UPDATE items SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}
	return s.GetItem(id)
}

func (s *SQLStore) DeleteItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---------- sales ----------

func (s *SQLStore) ListSales(p ListSalesParams) ([]domain.Sale, int, error) {
	var conds []string
	var args []any
	if p.From != nil {
		conds = append(conds, "sale_date >= ?")
		args = append(args, p.From.UnixMilli())
	}
	if p.To != nil {
		conds = append(conds, "sale_date <= ?")
		args = append(args, p.To.UnixMilli())
	}
	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM sales`+where, args...); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + saleCols + ` FROM sales` + where + ` ORDER BY sale_date DESC, id`
	if p.Limit > 0 {
		page := p.Page
		if page < 1 {
			page = 1
		}
		q += ` LIMIT ? OFFSET ?`
		args = append(args, p.Limit, (page-1)*p.Limit)
	}

	var rows []saleRow
	if err := s.db.Select(&rows, q, args...); err != nil {
		return nil, 0, err
	}
	out := make([]domain.Sale, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, total, nil
}

func (s *SQLStore) GetSale(id string) (*domain.Sale, error) {
	var r saleRow
	if err := s.db.Get(&r, `SELECT `+saleCols+` FROM sales WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	sale := r.toDomain()
	return &sale, nil
}

// CreateSale persists the header, its lines, and the stock deductions in one
// transaction. Each decrement is guarded (stock_quantity >= quantity), so a
// concurrent sale that would overdraw an item makes the whole operation roll
// back with an InsufficientStockError instead of going negative.
func (s *SQLStore) CreateSale(sale *domain.Sale, lines []domain.SaleLineItem) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := time.Now()
	sale.CreatedAt = now
	sale.UpdatedAt = now

	for i := range lines {
		ln := &lines[i]
		res, err := tx.Exec(`
			UPDATE items
			SET stock_quantity = stock_quantity - ?, updated_at = ?
			WHERE id = ? AND stock_quantity >= ?`,
			ln.Quantity, now.UnixMilli(), ln.ItemID, ln.Quantity)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var r itemRow
			err := tx.Get(&r, `SELECT `+itemCols+` FROM items WHERE id = ?`, ln.ItemID)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			if err != nil {
				return err
			}
			return &domain.InsufficientStockError{
				ItemID:    r.ID,
				ItemName:  r.Name,
				Available: r.StockQuantity,
				Requested: ln.Quantity,
			}
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO sales(`+saleCols+`)
		VALUES(?,?,?,?,?,?,?,?)`,
		sale.ID, sale.SaleDate.UnixMilli(), sale.TotalAmount, string(sale.PaymentMethod),
		nullStr(sale.CustomerName), sale.InvoiceNumber,
		sale.CreatedAt.UnixMilli(), sale.UpdatedAt.UnixMilli()); err != nil {
		// An invoice number collision hits the unique index here; the
		// rollback undoes the decrements above.
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	for i := range lines {
		ln := &lines[i]
		if ln.ID == "" {
			ln.ID = uuid.NewString()
		}
		ln.SaleID = sale.ID
		if _, err := tx.Exec(`
			INSERT INTO sale_line_items(`+lineCols+`)
			VALUES(?,?,?,?,?,?)`,
			ln.ID, ln.SaleID, ln.ItemID, ln.Quantity, ln.UnitPrice, ln.TotalPrice); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListSaleLineItems(saleID string) ([]domain.SaleLineItem, error) {
	if _, err := s.GetSale(saleID); err != nil {
		return nil, err
	}
	var rows []lineRow
	if err := s.db.Select(&rows, `SELECT `+lineCols+` FROM sale_line_items WHERE sale_id = ?`, saleID); err != nil {
		return nil, err
	}
	out := make([]domain.SaleLineItem, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *SQLStore) ListSaleLineItemsSince(since time.Time) ([]domain.SaleLineItem, error) {
	var rows []lineRow
	err := s.db.Select(&rows, `
		SELECT li.id, li.sale_id, li.item_id, li.quantity, li.unit_price, li.total_price
		FROM sale_line_items li
		JOIN sales sa ON sa.id = li.sale_id
		WHERE sa.sale_date >= ?`, since.UnixMilli())
	if err != nil {
		return nil, err
	}
	out := make([]domain.SaleLineItem, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ---------- categories ----------

func (s *SQLStore) ListCategories() ([]domain.Category, error) {
	var rows []struct {
		ID        string `db:"id"`
		Name      string `db:"name"`
		CreatedAt int64  `db:"created_at"`
	}
	if err := s.db.Select(&rows, `SELECT id, name, created_at FROM categories ORDER BY name`); err != nil {
		return nil, err
	}
	out := make([]domain.Category, len(rows))
	for i, r := range rows {
		out[i] = domain.Category{ID: r.ID, Name: r.Name, CreatedAt: time.UnixMilli(r.CreatedAt)}
	}
	return out, nil
}

func (s *SQLStore) CreateCategory(c *domain.Category) error {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM categories WHERE LOWER(name) = LOWER(?)`, c.Name); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO categories(id, name, created_at) VALUES(?,?,?)`,
		c.ID, c.Name, c.CreatedAt.UnixMilli())
	return err
}

func (s *SQLStore) HealthCheck() error { return s.db.Ping() }

func (s *SQLStore) Close() error { return s.db.Close() }

// isUniqueViolation recognizes a unique-index failure from either driver.
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
