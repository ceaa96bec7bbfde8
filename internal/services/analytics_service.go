package services

import (
	"sort"
	"time"

	"ministore/internal/domain"
	applog "ministore/internal/log"
	"ministore/internal/storage"
)

// AnalyticsService derives time-bucketed aggregates from sales and sale
// lines. All reads, no caching; trend and top-product queries degrade to
// empty results when storage is unreachable, the summary surfaces the
// failure.
type AnalyticsService struct {
	Store storage.Store
}

func NewAnalyticsService(store storage.Store) *AnalyticsService {
	return &AnalyticsService{Store: store}
}

// DailySalesTrend buckets sales in [start, end] by the calendar day of each
// sale's own timestamp. Days without sales produce no bucket.
func (s *AnalyticsService) DailySalesTrend(start, end time.Time) []domain.DailyBucket {
	sales, _, err := s.Store.ListSales(storage.ListSalesParams{From: &start, To: &end})
	if err != nil {
		applog.Error(nil, "analytics.trend", err, nil)
		return []domain.DailyBucket{}
	}
	return bucketByDay(sales)
}

// TopSellingProducts ranks items by units sold across line items whose
// parent sale falls in the optional range; a nil range means all time.
// Names come from one batch lookup.
func (s *AnalyticsService) TopSellingProducts(start, end *time.Time, limit int) []domain.TopProduct {
	if limit <= 0 {
		limit = 10
	}

	sales, _, err := s.Store.ListSales(storage.ListSalesParams{From: start, To: end})
	if err != nil {
		applog.Error(nil, "analytics.top_products", err, nil)
		return []domain.TopProduct{}
	}
	inRange := make(map[string]struct{}, len(sales))
	for _, sale := range sales {
		inRange[sale.ID] = struct{}{}
	}

	lines, err := s.Store.ListSaleLineItemsSince(time.Time{})
	if err != nil {
		applog.Error(nil, "analytics.top_products", err, nil)
		return []domain.TopProduct{}
	}

	type stat struct {
		quantity int
		revenue  float64
	}
	stats := make(map[string]*stat)
	var order []string
	for _, ln := range lines {
		if _, ok := inRange[ln.SaleID]; !ok {
			continue
		}
		st, ok := stats[ln.ItemID]
		if !ok {
			st = &stat{}
			stats[ln.ItemID] = st
			order = append(order, ln.ItemID)
		}
		st.quantity += ln.Quantity
		st.revenue += ln.TotalPrice
	}

	items, err := s.Store.ListItemsByIDs(order)
	if err != nil {
		applog.Error(nil, "analytics.top_products", err, nil)
		return []domain.TopProduct{}
	}

	out := make([]domain.TopProduct, 0, len(order))
	for _, id := range order {
		st := stats[id]
		p := domain.TopProduct{ItemID: id, Quantity: st.quantity, Revenue: domain.Round2(st.revenue)}
		if it, ok := items[id]; ok {
			p.Name = it.Name
			p.ItemCode = it.ItemCode
		} else {
			p.Name = "Unknown"
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DailySummary rolls the day buckets up into overall totals and averages.
// With no explicit range it covers the trailing trailingDays ending now.
// An empty sales set yields zero-valued summaries; a storage failure is
// fatal here, unlike the other read paths.
func (s *AnalyticsService) DailySummary(start, end *time.Time, trailingDays int) (*domain.SummaryReport, error) {
	from, to := time.Time{}, time.Now()
	if start != nil && end != nil {
		from, to = *start, *end
	} else {
		if trailingDays <= 0 {
			trailingDays = 30
		}
		from = to.AddDate(0, 0, -trailingDays)
	}

	sales, _, err := s.Store.ListSales(storage.ListSalesParams{From: &from, To: &to})
	if err != nil {
		return nil, &domain.StorageUnavailableError{Cause: err}
	}
	daily := bucketByDay(sales)

	report := &domain.SummaryReport{Daily: daily, DayCount: len(daily)}
	for _, b := range daily {
		report.TotalRevenue += b.TotalSales
		report.TotalTransactions += b.TransactionCount
	}
	report.TotalRevenue = domain.Round2(report.TotalRevenue)
	if len(daily) > 0 {
		report.AvgDailySales = domain.Round2(report.TotalRevenue / float64(len(daily)))
	}
	if report.TotalTransactions > 0 {
		report.AvgTransactionValue = domain.Round2(report.TotalRevenue / float64(report.TotalTransactions))
	}
	return report, nil
}

// InventoryReport snapshots stock status and valuation. Optional filters:
// category (empty or "all" means every category) and status, one of
// "in_stock", "low_stock", "out_of_stock".
func (s *AnalyticsService) InventoryReport(category, status string) (*domain.InventoryReport, error) {
	if category == "all" {
		category = ""
	}
	items, _, err := s.Store.ListItems(storage.ListItemsParams{Category: category})
	if err != nil {
		return nil, &domain.StorageUnavailableError{Cause: err}
	}

	filtered := items[:0:0]
	for _, it := range items {
		switch status {
		case "low_stock":
			if it.StockQuantity > it.LowStockThreshold {
				continue
			}
		case "out_of_stock":
			if it.StockQuantity != 0 {
				continue
			}
		case "in_stock":
			if it.StockQuantity <= it.LowStockThreshold {
				continue
			}
		}
		filtered = append(filtered, it)
	}

	sum := domain.InventorySummary{
		TotalItems: len(filtered),
		ByCategory: map[string]int{},
	}
	value := 0.0
	for _, it := range filtered {
		sum.TotalStock += it.StockQuantity
		value += it.Price * float64(it.StockQuantity)
		if it.StockQuantity == 0 {
			sum.OutOfStockCount++
		}
		if it.StockQuantity <= it.LowStockThreshold {
			sum.LowStockCount++
		}
		cat := it.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		sum.ByCategory[cat]++
	}
	sum.TotalValue = domain.Round2(value)

	if filtered == nil {
		filtered = []domain.Item{}
	}
	return &domain.InventoryReport{Summary: sum, Items: filtered}, nil
}

// SalesReport aggregates the sale headers in the optional range, counting
// units sold from the line items and bucketing transactions by payment
// method. The sale list in the result is capped at 100 rows.
func (s *AnalyticsService) SalesReport(start, end *time.Time, method domain.PaymentMethod) (*domain.SalesReport, error) {
	sales, _, err := s.Store.ListSales(storage.ListSalesParams{From: start, To: end})
	if err != nil {
		return nil, &domain.StorageUnavailableError{Cause: err}
	}
	if method != "" {
		kept := sales[:0:0]
		for _, sale := range sales {
			if sale.PaymentMethod == method {
				kept = append(kept, sale)
			}
		}
		sales = kept
	}
	inRange := make(map[string]struct{}, len(sales))
	for _, sale := range sales {
		inRange[sale.ID] = struct{}{}
	}

	lines, err := s.Store.ListSaleLineItemsSince(time.Time{})
	if err != nil {
		return nil, &domain.StorageUnavailableError{Cause: err}
	}

	sum := domain.SalesSummary{
		TotalTransactions: len(sales),
		ByPaymentMethod:   map[string]int{},
	}
	amount := 0.0
	for _, sale := range sales {
		amount += sale.TotalAmount
		sum.ByPaymentMethod[string(sale.PaymentMethod)]++
	}
	for _, ln := range lines {
		if _, ok := inRange[ln.SaleID]; ok {
			sum.ItemsSold += ln.Quantity
		}
	}
	sum.TotalAmount = domain.Round2(amount)
	if sum.TotalTransactions > 0 {
		sum.AvgSaleValue = domain.Round2(sum.TotalAmount / float64(sum.TotalTransactions))
	}

	if len(sales) > 100 {
		sales = sales[:100]
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return &domain.SalesReport{Summary: sum, Sales: sales}, nil
}

func bucketByDay(sales []domain.Sale) []domain.DailyBucket {
	type agg struct {
		total float64
		count int
	}
	byDay := make(map[string]*agg)
	for _, sale := range sales {
		day := sale.SaleDate.Format("2006-01-02")
		a, ok := byDay[day]
		if !ok {
			a = &agg{}
			byDay[day] = a
		}
		a.total += sale.TotalAmount
		a.count++
	}

	out := make([]domain.DailyBucket, 0, len(byDay))
	for day, a := range byDay {
		out = append(out, domain.DailyBucket{
			Date:             day,
			TotalSales:       domain.Round2(a.total),
			TransactionCount: a.count,
			AvgSaleValue:     domain.Round2(a.total / float64(a.count)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
