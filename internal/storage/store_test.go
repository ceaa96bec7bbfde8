package storage_test

import (
	"errors"
	"testing"
	"time"

	"ministore/internal/domain"
	"ministore/internal/storage"
)

// Both backends must honor the same contracts, so every test here runs
// against the map store and a throwaway SQLite database.
func eachStore(t *testing.T, run func(t *testing.T, s storage.Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		run(t, storage.NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := storage.OpenSQL(storage.DialectSQLite, ":memory:")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		run(t, s)
	})
}

func seedItem(t *testing.T, s storage.Store, code string, stock int) *domain.Item {
	t.Helper()
	it := &domain.Item{
		Name:              "Item " + code,
		ItemCode:          code,
		Price:             4.50,
		StockQuantity:     stock,
		LowStockThreshold: 10,
		Category:          "beverages",
	}
	if err := s.CreateItem(it); err != nil {
		t.Fatal(err)
	}
	return it
}

func TestGetItemUnknown(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		if _, err := s.GetItem("no-such-id"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestCreateItemDuplicateCode(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		seedItem(t, s, "COKE-330", 5)

		dup := &domain.Item{Name: "Coke can", ItemCode: "coke-330", Price: 1}
		if err := s.CreateItem(dup); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("want ErrConflict for case-insensitive duplicate, got %v", err)
		}
	})
}

func TestGetItemByCodeCaseInsensitive(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		it := seedItem(t, s, "MILK-1L", 8)
		got, err := s.GetItemByCode("milk-1l")
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != it.ID {
			t.Fatalf("want %s, got %s", it.ID, got.ID)
		}
	})
}

func TestUpdateItemPatch(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		it := seedItem(t, s, "BREAD-01", 7)
		exp := time.Now().AddDate(0, 0, 10).Truncate(time.Millisecond)

		price := 5.25
		got, err := s.UpdateItem(it.ID, storage.ItemPatch{Price: &price, ExpiryDate: &exp})
		if err != nil {
			t.Fatal(err)
		}
		if got.Price != 5.25 || got.ExpiryDate == nil {
			t.Fatalf("patch not applied: %+v", got)
		}
		// Untouched fields survive.
		if got.StockQuantity != 7 || got.ItemCode != "BREAD-01" {
			t.Fatalf("patch clobbered other fields: %+v", got)
		}

		got, err = s.UpdateItem(it.ID, storage.ItemPatch{ClearExpiryDate: true})
		if err != nil {
			t.Fatal(err)
		}
		if got.ExpiryDate != nil {
			t.Fatalf("expiry should be cleared, got %v", got.ExpiryDate)
		}
	})
}

func TestListItemsPagination(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		for _, code := range []string{"A-1", "A-2", "A-3", "A-4", "A-5"} {
			seedItem(t, s, code, 1)
		}

		page, total, err := s.ListItems(storage.ListItemsParams{Page: 2, Limit: 2})
		if err != nil {
			t.Fatal(err)
		}
		if total != 5 {
			t.Fatalf("want total 5, got %d", total)
		}
		if len(page) != 2 {
			t.Fatalf("want 2 items on page 2, got %d", len(page))
		}
	})
}

func TestCreateSaleDeductsStock(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		it := seedItem(t, s, "SODA-01", 5)

		sale := &domain.Sale{
			SaleDate:      time.Now(),
			TotalAmount:   13.50,
			PaymentMethod: domain.PaymentCash,
			InvoiceNumber: "INV-TEST-0001",
		}
		lines := []domain.SaleLineItem{
			{ItemID: it.ID, Quantity: 3, UnitPrice: 4.50, TotalPrice: 13.50},
		}
		if err := s.CreateSale(sale, lines); err != nil {
			t.Fatal(err)
		}

		got, err := s.GetItem(it.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.StockQuantity != 2 {
			t.Fatalf("want stock 2 after sale, got %d", got.StockQuantity)
		}

		stored, err := s.ListSaleLineItems(sale.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(stored) != 1 || stored[0].ItemID != it.ID || stored[0].Quantity != 3 {
			t.Fatalf("bad stored lines: %+v", stored)
		}
	})
}

func TestCreateSaleInsufficientStockMutatesNothing(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		a := seedItem(t, s, "OK-01", 10)
		b := seedItem(t, s, "LOW-01", 1)

		sale := &domain.Sale{
			SaleDate:      time.Now(),
			TotalAmount:   20,
			PaymentMethod: domain.PaymentCredit,
			InvoiceNumber: "INV-TEST-0002",
		}
		lines := []domain.SaleLineItem{
			{ItemID: a.ID, Quantity: 2, UnitPrice: 5, TotalPrice: 10},
			{ItemID: b.ID, Quantity: 3, UnitPrice: 5, TotalPrice: 15},
		}
		err := s.CreateSale(sale, lines)
		var ise *domain.InsufficientStockError
		if !errors.As(err, &ise) {
			t.Fatalf("want InsufficientStockError, got %v", err)
		}
		if ise.Available != 1 || ise.Requested != 3 {
			t.Fatalf("bad error detail: %+v", ise)
		}

		// The first line must not have been deducted.
		got, err := s.GetItem(a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.StockQuantity != 10 {
			t.Fatalf("partial deduction leaked: stock=%d", got.StockQuantity)
		}
		if sales, total, _ := s.ListSales(storage.ListSalesParams{}); total != 0 || len(sales) != 0 {
			t.Fatalf("sale header persisted despite failure: %d", total)
		}
	})
}

func TestCreateSaleDuplicateInvoice(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		it := seedItem(t, s, "INV-DUP", 10)

		mkSale := func() (*domain.Sale, []domain.SaleLineItem) {
			sale := &domain.Sale{
				SaleDate:      time.Now(),
				TotalAmount:   4.50,
				PaymentMethod: domain.PaymentCash,
				InvoiceNumber: "INV-SAME-0001",
			}
			lines := []domain.SaleLineItem{
				{ItemID: it.ID, Quantity: 2, UnitPrice: 2.25, TotalPrice: 4.50},
			}
			return sale, lines
		}

		sale, lines := mkSale()
		if err := s.CreateSale(sale, lines); err != nil {
			t.Fatal(err)
		}
		sale, lines = mkSale()
		if err := s.CreateSale(sale, lines); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("want ErrConflict for duplicate invoice, got %v", err)
		}

		// Only the first sale's deduction stands.
		got, err := s.GetItem(it.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.StockQuantity != 8 {
			t.Fatalf("failed sale must not deduct stock, got %d", got.StockQuantity)
		}
		if _, total, _ := s.ListSales(storage.ListSalesParams{}); total != 1 {
			t.Fatalf("want 1 persisted sale, got %d", total)
		}
	})
}

func TestCreateSaleUnknownItem(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		sale := &domain.Sale{
			SaleDate:      time.Now(),
			TotalAmount:   5,
			PaymentMethod: domain.PaymentCash,
			InvoiceNumber: "INV-TEST-0003",
		}
		lines := []domain.SaleLineItem{{ItemID: "ghost", Quantity: 1, UnitPrice: 5, TotalPrice: 5}}
		if err := s.CreateSale(sale, lines); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestListSalesDateFilter(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		it := seedItem(t, s, "TEA-01", 100)

		days := []int{-10, -5, -1}
		for i, d := range days {
			sale := &domain.Sale{
				SaleDate:      time.Now().AddDate(0, 0, d),
				TotalAmount:   2,
				PaymentMethod: domain.PaymentCash,
				InvoiceNumber: "INV-FILTER-" + string(rune('A'+i)),
			}
			lines := []domain.SaleLineItem{{ItemID: it.ID, Quantity: 1, UnitPrice: 2, TotalPrice: 2}}
			if err := s.CreateSale(sale, lines); err != nil {
				t.Fatal(err)
			}
		}

		from := time.Now().AddDate(0, 0, -7)
		got, total, err := s.ListSales(storage.ListSalesParams{From: &from})
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 || len(got) != 2 {
			t.Fatalf("want 2 sales since %s, got %d", from.Format("2006-01-02"), total)
		}
	})
}

func TestCategoryDuplicateName(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		if err := s.CreateCategory(&domain.Category{Name: "Beverages"}); err != nil {
			t.Fatal(err)
		}
		err := s.CreateCategory(&domain.Category{Name: "beverages"})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("want ErrConflict, got %v", err)
		}
	})
}

func TestResolveBackend(t *testing.T) {
	cases := []struct {
		name string
		o    storage.Options
		want storage.BackendType
	}{
		{"explicit wins", storage.Options{Type: storage.BackendMemory, MySQLDSN: "u:p@/db"}, storage.BackendMemory},
		{"mysql before sqlite", storage.Options{MySQLDSN: "u:p@/db", SQLitePath: "x.db"}, storage.BackendMySQL},
		{"sqlite from path", storage.Options{SQLitePath: "x.db"}, storage.BackendSQLite},
		{"default memory", storage.Options{}, storage.BackendMemory},
	}
	for _, tc := range cases {
		if got := storage.Resolve(tc.o); got != tc.want {
			t.Errorf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}
