package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ministore/internal/domain"
)

// MemoryStore is the map-backed adapter used by tests and ephemeral
// environments. One store-wide mutex makes every operation, in particular
// CreateSale's check-and-deduct, a critical section; two concurrent sales
// against the same low-stock item can never both pass the stock check.
type MemoryStore struct {
	mu         sync.Mutex
	items      map[string]domain.Item
	sales      map[string]domain.Sale
	lines      map[string][]domain.SaleLineItem // keyed by sale id
	categories map[string]domain.Category
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:      make(map[string]domain.Item),
		sales:      make(map[string]domain.Sale),
		lines:      make(map[string][]domain.SaleLineItem),
		categories: make(map[string]domain.Category),
	}
}

func (s *MemoryStore) ListItems(p ListItemsParams) ([]domain.Item, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if p.Category != "" && it.Category != p.Category {
			continue
		}
		out = append(out, it)
	}
	// Newest first, id as tiebreaker so paging is stable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	total := len(out)
	return paginate(out, p.Page, p.Limit), total, nil
}

func (s *MemoryStore) GetItem(id string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (s *MemoryStore) GetItemByCode(code string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if strings.EqualFold(it.ItemCode, code) {
			it := it
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) ListItemsByIDs(ids []string) (map[string]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.Item, len(ids))
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateItem(item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if strings.EqualFold(it.ItemCode, item.ItemCode) {
			return domain.ErrConflict
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) UpdateItem(id string, patch ItemPatch) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.ItemCode != nil {
		for oid, other := range s.items {
			if oid != id && strings.EqualFold(other.ItemCode, *patch.ItemCode) {
				return nil, domain.ErrConflict
			}
		}
		it.ItemCode = *patch.ItemCode
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		it.StockQuantity = *patch.StockQuantity
	}
	if patch.LowStockThreshold != nil {
		it.LowStockThreshold = *patch.LowStockThreshold
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.ExpiryDate != nil {
		it.ExpiryDate = patch.ExpiryDate
	}
	if patch.ClearExpiryDate {
		it.ExpiryDate = nil
	}
	it.UpdatedAt = time.Now()
	s.items[id] = it
	return &it, nil
}

func (s *MemoryStore) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) ListSales(p ListSalesParams) ([]domain.Sale, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		if p.From != nil && sale.SaleDate.Before(*p.From) {
			continue
		}
		if p.To != nil && sale.SaleDate.After(*p.To) {
			continue
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].ID < out[j].ID
	})
	total := len(out)
	return paginate(out, p.Page, p.Limit), total, nil
}

func (s *MemoryStore) GetSale(id string) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sale, nil
}

func (s *MemoryStore) CreateSale(sale *domain.Sale, lines []domain.SaleLineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sales {
		if existing.InvoiceNumber == sale.InvoiceNumber {
			return domain.ErrConflict
		}
	}

	// Validate every line before touching anything.
	for _, ln := range lines {
		it, ok := s.items[ln.ItemID]
		if !ok {
			return domain.ErrNotFound
		}
		if it.StockQuantity < ln.Quantity {
			return &domain.InsufficientStockError{
				ItemID:    it.ID,
				ItemName:  it.Name,
				Available: it.StockQuantity,
				Requested: ln.Quantity,
			}
		}
	}

	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := time.Now()
	sale.CreatedAt = now
	sale.UpdatedAt = now

	stored := make([]domain.SaleLineItem, len(lines))
	for i, ln := range lines {
		if ln.ID == "" {
			ln.ID = uuid.NewString()
		}
		ln.SaleID = sale.ID
		it := s.items[ln.ItemID]
		it.StockQuantity -= ln.Quantity
		it.UpdatedAt = now
		s.items[ln.ItemID] = it
		stored[i] = ln
		lines[i] = ln
	}
	s.sales[sale.ID] = *sale
	s.lines[sale.ID] = stored
	return nil
}

func (s *MemoryStore) ListSaleLineItems(saleID string) ([]domain.SaleLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sales[saleID]; !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.SaleLineItem, len(s.lines[saleID]))
	copy(out, s.lines[saleID])
	return out, nil
}

func (s *MemoryStore) ListSaleLineItemsSince(since time.Time) ([]domain.SaleLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SaleLineItem
	for saleID, lines := range s.lines {
		sale := s.sales[saleID]
		if sale.SaleDate.Before(since) {
			continue
		}
		out = append(out, lines...)
	}
	return out, nil
}

func (s *MemoryStore) ListCategories() ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCategory(c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrConflict
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *MemoryStore) HealthCheck() error { return nil }

func (s *MemoryStore) Close() error { return nil }

func paginate[T any](in []T, page, limit int) []T {
	if limit <= 0 {
		return in
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(in) {
		return nil
	}
	end := start + limit
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}
