// Package storage exposes a uniform capability set over the persisted
// entities (items, categories, sales, sale line items) regardless of backend.
// Backends hold no business rules; they do guarantee the storage-level
// contracts: GetItem on an unknown id reports domain.ErrNotFound, CreateItem
// with a duplicate item code reports domain.ErrConflict, and CreateSale
// either persists the sale with all its lines and stock deductions or
// persists nothing.
package storage

import (
	"time"

	"ministore/internal/domain"
)

// ListItemsParams pages and filters item listings. Zero values mean
// "no filter"; Page/Limit of zero fall back to defaults.
type ListItemsParams struct {
	Page     int
	Limit    int
	Category string
}

// ListSalesParams pages and date-filters sale listings. Nil bounds mean
// unbounded on that side.
type ListSalesParams struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// ItemPatch updates only the fields whose pointers are non-nil.
type ItemPatch struct {
	Name              *string
	ItemCode          *string
	Price             *float64
	StockQuantity     *int
	LowStockThreshold *int
	Category          *string
	ExpiryDate        *time.Time
	ClearExpiryDate   bool
}

// Store is the capability set every backend implements.
type Store interface {
	// Items
	ListItems(p ListItemsParams) ([]domain.Item, int, error)
	GetItem(id string) (*domain.Item, error)
	GetItemByCode(code string) (*domain.Item, error)
	ListItemsByIDs(ids []string) (map[string]domain.Item, error)
	CreateItem(item *domain.Item) error
	UpdateItem(id string, patch ItemPatch) (*domain.Item, error)
	DeleteItem(id string) error

	// Sales. CreateSale is the single atomic unit of the sale protocol: it
	// persists the header and lines and deducts stock for every line inside
	// one critical section, re-checking stock as it deducts. A failed
	// re-check aborts the whole operation with *domain.InsufficientStockError.
	ListSales(p ListSalesParams) ([]domain.Sale, int, error)
	GetSale(id string) (*domain.Sale, error)
	CreateSale(sale *domain.Sale, lines []domain.SaleLineItem) error
	ListSaleLineItems(saleID string) ([]domain.SaleLineItem, error)
	ListSaleLineItemsSince(since time.Time) ([]domain.SaleLineItem, error)

	// Categories
	ListCategories() ([]domain.Category, error)
	CreateCategory(c *domain.Category) error

	HealthCheck() error
	Close() error
}
