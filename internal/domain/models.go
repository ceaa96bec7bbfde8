package domain

import "time"

// PaymentMethod is the closed set of ways a sale can be paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentMobile PaymentMethod = "mobile_payment"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentMobile:
		return true
	}
	return false
}

// Item is a stocked product. StockQuantity is never negative; the storage
// layer enforces that invariant, not callers.
type Item struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	ItemCode          string     `json:"itemCode"`
	Price             float64    `json:"price"`
	StockQuantity     int        `json:"stockQuantity"`
	LowStockThreshold int        `json:"lowStockThreshold"`
	Category          string     `json:"category,omitempty"`
	ExpiryDate        *time.Time `json:"expiryDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sale is immutable once recorded. TotalAmount equals the rounded sum of its
// line items' total prices.
type Sale struct {
	ID            string        `json:"id"`
	SaleDate      time.Time     `json:"saleDate"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerName  string        `json:"customerName,omitempty"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type SaleLineItem struct {
	ID         string  `json:"id"`
	SaleID     string  `json:"saleId"`
	ItemID     string  `json:"itemId"`
	ItemName   string  `json:"itemName,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// SaleWithItems is what callers get back after a sale is recorded: the
// persisted header with its lines attached and item names resolved.
type SaleWithItems struct {
	Sale
	Items []SaleLineItem `json:"items"`
}

type AlertType string

const (
	AlertOutOfStock   AlertType = "out_of_stock"
	AlertLowStock     AlertType = "low_stock"
	AlertSlowMoving   AlertType = "slow_moving"
	AlertExpired      AlertType = "expired"
	AlertExpiringSoon AlertType = "expiring_soon"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for sorting: critical=0 ... low=3.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// Alert is derived, never persisted. Every computation rebuilds the full set
// from current state.
type Alert struct {
	Type          AlertType `json:"type"`
	Message       string    `json:"message"`
	Severity      Severity  `json:"severity"`
	ItemID        string    `json:"itemId"`
	ItemCode      string    `json:"itemCode"`
	ItemName      string    `json:"name"`
	StockQuantity int       `json:"stockQuantity"`
	DaysToExpiry  int       `json:"daysUntilExpiry,omitempty"`
}

// DailyBucket aggregates one calendar day of sales.
type DailyBucket struct {
	Date             string  `json:"date"` // YYYY-MM-DD
	TotalSales       float64 `json:"totalSales"`
	TransactionCount int     `json:"transactionCount"`
	AvgSaleValue     float64 `json:"avgSaleValue"`
}

// TopProduct is one row of the quantity-ranked product report.
type TopProduct struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	ItemCode string  `json:"itemCode"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// InventoryReport is the point-in-time stock-status and valuation view.
type InventoryReport struct {
	Summary InventorySummary `json:"summary"`
	Items   []Item           `json:"items"`
}

type InventorySummary struct {
	TotalItems      int            `json:"totalItems"`
	TotalStock      int            `json:"totalStock"`
	TotalValue      float64        `json:"totalValue"`
	LowStockCount   int            `json:"lowStockCount"`
	OutOfStockCount int            `json:"outOfStockCount"`
	ByCategory      map[string]int `json:"byCategory"`
}

// SalesReport aggregates sale headers over a range, broken down by payment
// method.
type SalesReport struct {
	Summary SalesSummary `json:"summary"`
	Sales   []Sale       `json:"sales"`
}

type SalesSummary struct {
	TotalAmount       float64        `json:"totalAmount"`
	TotalTransactions int            `json:"totalTransactions"`
	ItemsSold         int            `json:"itemsSold"`
	AvgSaleValue      float64        `json:"avgSaleValue"`
	ByPaymentMethod   map[string]int `json:"byPaymentMethod"`
}

// SummaryReport is the daily-summary rollup with its per-day breakdown.
type SummaryReport struct {
	TotalRevenue        float64       `json:"totalRevenue"`
	TotalTransactions   int           `json:"totalTransactions"`
	AvgDailySales       float64       `json:"avgDailySales"`
	AvgTransactionValue float64       `json:"avgTransactionValue"`
	DayCount            int           `json:"dayCount"`
	Daily               []DailyBucket `json:"daily"`
}
