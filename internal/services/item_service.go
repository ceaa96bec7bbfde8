package services

import (
	"time"

	"ministore/internal/domain"
	"ministore/internal/storage"
	"ministore/internal/validate"
)

type CreateItemRequest struct {
	Name              string     `json:"name" validate:"required,max=255"`
	ItemCode          string     `json:"itemCode" validate:"required,max=50"`
	Price             float64    `json:"price" validate:"gte=0"`
	StockQuantity     int        `json:"stockQuantity" validate:"gte=0"`
	LowStockThreshold *int       `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Category          string     `json:"category"`
	ExpiryDate        *time.Time `json:"expiryDate"`
}

type UpdateItemRequest struct {
	Name              *string    `json:"name" validate:"omitempty,min=1,max=255"`
	ItemCode          *string    `json:"itemCode" validate:"omitempty,min=1,max=50"`
	Price             *float64   `json:"price" validate:"omitempty,gte=0"`
	StockQuantity     *int       `json:"stockQuantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int       `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Category          *string    `json:"category"`
	ExpiryDate        *time.Time `json:"expiryDate"`
}

// ItemService wraps item CRUD with declarative validation. These are the
// administrative operations; only the sale path itself touches stock through
// a different door.
type ItemService struct {
	Store storage.Store
}

func NewItemService(store storage.Store) *ItemService {
	return &ItemService{Store: store}
}

func (s *ItemService) List(page, limit int, category string) ([]domain.Item, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.Store.ListItems(storage.ListItemsParams{Page: page, Limit: limit, Category: category})
}

func (s *ItemService) Get(id string) (*domain.Item, error) {
	return s.Store.GetItem(id)
}

func (s *ItemService) Create(req CreateItemRequest) (*domain.Item, error) {
	if verr := validate.Struct(req); verr != nil {
		return nil, verr
	}
	threshold := 10
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	item := &domain.Item{
		Name:              req.Name,
		ItemCode:          req.ItemCode,
		Price:             domain.Round2(req.Price),
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: threshold,
		Category:          req.Category,
		ExpiryDate:        req.ExpiryDate,
	}
	if err := s.Store.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Update(id string, req UpdateItemRequest) (*domain.Item, error) {
	if verr := validate.Struct(req); verr != nil {
		return nil, verr
	}
	patch := storage.ItemPatch{
		Name:              req.Name,
		ItemCode:          req.ItemCode,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		Category:          req.Category,
		ExpiryDate:        req.ExpiryDate,
	}
	if req.Price != nil {
		rounded := domain.Round2(*req.Price)
		patch.Price = &rounded
	}
	return s.Store.UpdateItem(id, patch)
}

func (s *ItemService) Delete(id string) error {
	return s.Store.DeleteItem(id)
}

func (s *ItemService) ListCategories() ([]domain.Category, error) {
	return s.Store.ListCategories()
}

func (s *ItemService) CreateCategory(name string) (*domain.Category, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	c := &domain.Category{Name: name}
	if err := s.Store.CreateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}
