package services

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ministore/internal/domain"
	"ministore/internal/storage"
	"ministore/internal/validate"
)

// LineItemRequest is one requested sale line. The caller supplies line
// totals; see RecordSale for the trust boundary.
type LineItemRequest struct {
	ItemID     string  `json:"itemId" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64 `json:"unitPrice" validate:"gte=0"`
	TotalPrice float64 `json:"totalPrice" validate:"gte=0"`
}

type RecordSaleRequest struct {
	Items         []LineItemRequest    `json:"items" validate:"required,min=1,dive"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cash credit mobile_payment"`
	CustomerName  string               `json:"customerName" validate:"max=255"`
	SaleDate      *time.Time           `json:"saleDate"`
}

type SalesService struct {
	Store storage.Store
}

func NewSalesService(store storage.Store) *SalesService {
	return &SalesService{Store: store}
}

// RecordSale runs the sale protocol: validate, resolve every item, check
// every line's stock, then hand the whole write to the storage layer as one
// atomic unit. Any failure before the storage call leaves state untouched;
// the storage layer guarantees the same for failures inside it.
//
// The total is the sum of the caller-supplied line totals after each is
// rounded to two decimals. Unit prices are NOT re-read from the item table
// here; that matches the system this replaces, where the client owns the
// displayed price.
func (s *SalesService) RecordSale(req RecordSaleRequest) (*domain.SaleWithItems, error) {
	if verr := validate.Struct(req); verr != nil {
		return nil, verr
	}

	// Resolve all items up front; a single missing id aborts with nothing
	// persisted.
	names := make(map[string]string, len(req.Items))
	for _, ln := range req.Items {
		item, err := s.Store.GetItem(ln.ItemID)
		if err != nil {
			return nil, err
		}
		if item.StockQuantity < ln.Quantity {
			return nil, &domain.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Available: item.StockQuantity,
				Requested: ln.Quantity,
			}
		}
		names[item.ID] = item.Name
	}

	// Sum the rounded line totals, not the raw inputs, so the stored total
	// always equals the sum of the stored lines.
	total := 0.0
	lines := make([]domain.SaleLineItem, len(req.Items))
	for i, ln := range req.Items {
		lineTotal := domain.Round2(ln.TotalPrice)
		total += lineTotal
		lines[i] = domain.SaleLineItem{
			ID:         uuid.NewString(),
			ItemID:     ln.ItemID,
			Quantity:   ln.Quantity,
			UnitPrice:  ln.UnitPrice,
			TotalPrice: lineTotal,
		}
	}

	saleDate := time.Now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}
	sale := domain.Sale{
		ID:            uuid.NewString(),
		SaleDate:      saleDate,
		TotalAmount:   domain.Round2(total),
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		InvoiceNumber: newInvoiceNumber(),
	}

	// The storage layer re-checks stock as it deducts, inside its own
	// critical section. Its verdict is authoritative under concurrency.
	if err := s.Store.CreateSale(&sale, lines); err != nil {
		return nil, err
	}

	out := &domain.SaleWithItems{Sale: sale, Items: lines}
	for i := range out.Items {
		out.Items[i].ItemName = names[out.Items[i].ItemID]
	}
	return out, nil
}

// ListSales returns one page of sale headers plus the total count.
func (s *SalesService) ListSales(page, limit int, from, to *time.Time) ([]domain.Sale, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.Store.ListSales(storage.ListSalesParams{Page: page, Limit: limit, From: from, To: to})
}

// GetSale loads a sale with its lines, item names resolved in one batch.
func (s *SalesService) GetSale(id string) (*domain.SaleWithItems, error) {
	sale, err := s.Store.GetSale(id)
	if err != nil {
		return nil, err
	}
	lines, err := s.Store.ListSaleLineItems(id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(lines))
	for i, ln := range lines {
		ids[i] = ln.ItemID
	}
	items, err := s.Store.ListItemsByIDs(ids)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if it, ok := items[lines[i].ItemID]; ok {
			lines[i].ItemName = it.Name
		}
	}
	return &domain.SaleWithItems{Sale: *sale, Items: lines}, nil
}

const invoiceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newInvoiceNumber builds INV-<base36 epoch millis>-<4 random chars>, upper
// case. Uniqueness is probabilistic; the sales table's unique index turns a
// collision into a conflict instead of silent corruption.
func newInvoiceNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	var b [4]byte
	for i := range b {
		b[i] = invoiceAlphabet[rand.IntN(len(invoiceAlphabet))]
	}
	return "INV-" + ts + "-" + string(b[:])
}
