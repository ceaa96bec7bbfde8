package services_test

import (
	"testing"
	"time"

	"ministore/internal/domain"
	"ministore/internal/services"
	"ministore/internal/storage"
)

func recordSaleAt(t *testing.T, store storage.Store, it *domain.Item, qty int, when time.Time, invoice string) {
	t.Helper()
	sale := &domain.Sale{
		SaleDate:      when,
		TotalAmount:   domain.Round2(float64(qty) * it.Price),
		PaymentMethod: domain.PaymentCash,
		InvoiceNumber: invoice,
	}
	lines := []domain.SaleLineItem{{
		ItemID: it.ID, Quantity: qty,
		UnitPrice: it.Price, TotalPrice: domain.Round2(float64(qty) * it.Price),
	}}
	if err := store.CreateSale(sale, lines); err != nil {
		t.Fatal(err)
	}
}

func TestDailySalesTrendBuckets(t *testing.T) {
	store := storage.NewMemoryStore()
	it := seedStoreItem(t, store, "TREND-01", 3.00, 100)

	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 12, 16, 30, 0, 0, time.UTC)
	recordSaleAt(t, store, it, 2, day1, "INV-TR-0001")
	recordSaleAt(t, store, it, 1, day1.Add(5*time.Hour), "INV-TR-0002")
	recordSaleAt(t, store, it, 4, day2, "INV-TR-0003")

	svc := services.NewAnalyticsService(store)
	buckets := svc.DailySalesTrend(day1.AddDate(0, 0, -1), day2.AddDate(0, 0, 1))

	// Sparse: the empty day in between produces no bucket.
	if len(buckets) != 2 {
		t.Fatalf("want 2 buckets, got %d: %+v", len(buckets), buckets)
	}
	if buckets[0].Date != "2026-08-10" || buckets[1].Date != "2026-08-12" {
		t.Fatalf("buckets out of order: %+v", buckets)
	}
	if buckets[0].TotalSales != 9.00 || buckets[0].TransactionCount != 2 {
		t.Fatalf("bad day1 bucket: %+v", buckets[0])
	}
	if buckets[0].AvgSaleValue != 4.50 {
		t.Fatalf("bad day1 average: %+v", buckets[0])
	}
}

func TestDailySalesTrendEmpty(t *testing.T) {
	svc := services.NewAnalyticsService(storage.NewMemoryStore())
	buckets := svc.DailySalesTrend(time.Now().AddDate(0, 0, -7), time.Now())
	if buckets == nil || len(buckets) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", buckets)
	}
}

func TestTopSellingProductsRanking(t *testing.T) {
	store := storage.NewMemoryStore()
	big := seedStoreItem(t, store, "TOP-01", 2.00, 100)
	small := seedStoreItem(t, store, "TOP-02", 50.00, 100)

	now := time.Now()
	recordSaleAt(t, store, big, 10, now, "INV-TOP-0001")
	recordSaleAt(t, store, small, 3, now, "INV-TOP-0002")

	svc := services.NewAnalyticsService(store)
	top := svc.TopSellingProducts(nil, nil, 10)

	// Ranked by quantity, not revenue: 10 units at 2.00 beats 3 at 50.00.
	if len(top) != 2 {
		t.Fatalf("want 2 products, got %d", len(top))
	}
	if top[0].ItemID != big.ID || top[0].Quantity != 10 {
		t.Fatalf("wrong leader: %+v", top[0])
	}
	if top[0].Revenue != 20.00 || top[1].Revenue != 150.00 {
		t.Fatalf("bad revenue: %+v", top)
	}
	if top[0].Name != big.Name || top[0].ItemCode != "TOP-01" {
		t.Fatalf("names not resolved: %+v", top[0])
	}
}

func TestTopSellingProductsLimitAndRange(t *testing.T) {
	store := storage.NewMemoryStore()
	a := seedStoreItem(t, store, "RNG-01", 1, 100)
	b := seedStoreItem(t, store, "RNG-02", 1, 100)

	old := time.Now().AddDate(0, 0, -60)
	recordSaleAt(t, store, a, 5, old, "INV-RNG-0001")
	recordSaleAt(t, store, b, 2, time.Now(), "INV-RNG-0002")

	svc := services.NewAnalyticsService(store)

	from := time.Now().AddDate(0, 0, -7)
	top := svc.TopSellingProducts(&from, nil, 10)
	if len(top) != 1 || top[0].ItemID != b.ID {
		t.Fatalf("range filter failed: %+v", top)
	}

	top = svc.TopSellingProducts(nil, nil, 1)
	if len(top) != 1 || top[0].ItemID != a.ID {
		t.Fatalf("limit should keep only the leader: %+v", top)
	}
}

func TestDailySummaryRollup(t *testing.T) {
	store := storage.NewMemoryStore()
	it := seedStoreItem(t, store, "SUM-01", 10.00, 100)

	day1 := time.Now().AddDate(0, 0, -2)
	day2 := time.Now().AddDate(0, 0, -1)
	recordSaleAt(t, store, it, 1, day1, "INV-SUM-0001")
	recordSaleAt(t, store, it, 2, day1.Add(time.Hour), "INV-SUM-0002")
	recordSaleAt(t, store, it, 3, day2, "INV-SUM-0003")

	svc := services.NewAnalyticsService(store)
	report, err := svc.DailySummary(nil, nil, 7)
	if err != nil {
		t.Fatal(err)
	}

	if report.TotalRevenue != 60.00 {
		t.Fatalf("want revenue 60.00, got %v", report.TotalRevenue)
	}
	if report.TotalTransactions != 3 || report.DayCount != 2 {
		t.Fatalf("bad counts: %+v", report)
	}
	if report.AvgDailySales != 30.00 {
		t.Fatalf("want avg daily 30.00, got %v", report.AvgDailySales)
	}
	if report.AvgTransactionValue != 20.00 {
		t.Fatalf("want avg transaction 20.00, got %v", report.AvgTransactionValue)
	}
}

func TestInventoryReport(t *testing.T) {
	store := storage.NewMemoryStore()
	mk := func(code, category string, price float64, stock int) *domain.Item {
		it := &domain.Item{
			Name: "Item " + code, ItemCode: code, Price: price,
			StockQuantity: stock, LowStockThreshold: 5, Category: category,
		}
		if err := store.CreateItem(it); err != nil {
			t.Fatal(err)
		}
		return it
	}
	mk("INV-A", "drinks", 2.00, 20)
	mk("INV-B", "drinks", 3.00, 0)
	low := mk("INV-C", "snacks", 1.50, 4)
	mk("INV-D", "", 10.00, 8)

	svc := services.NewAnalyticsService(store)
	report, err := svc.InventoryReport("", "")
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalItems != 4 || report.Summary.TotalStock != 32 {
		t.Fatalf("bad totals: %+v", report.Summary)
	}
	// 20*2 + 0*3 + 4*1.50 + 8*10
	if report.Summary.TotalValue != 126.00 {
		t.Fatalf("want value 126.00, got %v", report.Summary.TotalValue)
	}
	if report.Summary.OutOfStockCount != 1 || report.Summary.LowStockCount != 2 {
		t.Fatalf("bad stock counts: %+v", report.Summary)
	}
	if report.Summary.ByCategory["drinks"] != 2 || report.Summary.ByCategory["Uncategorized"] != 1 {
		t.Fatalf("bad category breakdown: %v", report.Summary.ByCategory)
	}

	report, err = svc.InventoryReport("snacks", "low_stock")
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalItems != 1 || report.Items[0].ID != low.ID {
		t.Fatalf("filters failed: %+v", report)
	}

	report, err = svc.InventoryReport("all", "out_of_stock")
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalItems != 1 || report.Items[0].ItemCode != "INV-B" {
		t.Fatalf("status filter failed: %+v", report)
	}
}

func TestSalesReport(t *testing.T) {
	store := storage.NewMemoryStore()
	it := seedStoreItem(t, store, "REP-01", 5.00, 100)

	now := time.Now()
	recordSaleAt(t, store, it, 2, now.AddDate(0, 0, -1), "INV-REP-0001")
	recordSaleAt(t, store, it, 3, now, "INV-REP-0002")

	credit := &domain.Sale{
		SaleDate: now, TotalAmount: 5.00,
		PaymentMethod: domain.PaymentCredit, InvoiceNumber: "INV-REP-0003",
	}
	if err := store.CreateSale(credit, []domain.SaleLineItem{
		{ItemID: it.ID, Quantity: 1, UnitPrice: 5.00, TotalPrice: 5.00},
	}); err != nil {
		t.Fatal(err)
	}

	svc := services.NewAnalyticsService(store)
	report, err := svc.SalesReport(nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalTransactions != 3 || report.Summary.ItemsSold != 6 {
		t.Fatalf("bad counts: %+v", report.Summary)
	}
	if report.Summary.TotalAmount != 30.00 || report.Summary.AvgSaleValue != 10.00 {
		t.Fatalf("bad amounts: %+v", report.Summary)
	}
	if report.Summary.ByPaymentMethod["cash"] != 2 || report.Summary.ByPaymentMethod["credit"] != 1 {
		t.Fatalf("bad method breakdown: %v", report.Summary.ByPaymentMethod)
	}

	report, err = svc.SalesReport(nil, nil, domain.PaymentCredit)
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalTransactions != 1 || report.Summary.ItemsSold != 1 {
		t.Fatalf("method filter failed: %+v", report.Summary)
	}
}

func TestDailySummaryEmpty(t *testing.T) {
	svc := services.NewAnalyticsService(storage.NewMemoryStore())
	report, err := svc.DailySummary(nil, nil, 30)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalRevenue != 0 || report.TotalTransactions != 0 || report.DayCount != 0 {
		t.Fatalf("want zero-valued report, got %+v", report)
	}
	if report.AvgDailySales != 0 || report.AvgTransactionValue != 0 {
		t.Fatalf("averages must be zero, not NaN: %+v", report)
	}
}
