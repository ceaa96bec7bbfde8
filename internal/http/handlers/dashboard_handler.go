package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ministore/internal/services"
	"ministore/internal/storage"
)

type DashboardHandler struct {
	Store     storage.Store
	Alert     *services.AlertService
	Analytics *services.AnalyticsService
}

// Alerts recomputes the full alert set as of now. Storage trouble yields an
// empty list, not an error; the dashboard keeps rendering.
func (h *DashboardHandler) Alerts(c *fiber.Ctx) error {
	return ok(c, h.Alert.ComputeAlerts(time.Now()))
}

// Overview aggregates the headline numbers the dashboard opens with.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, -1, 0)

	items, totalItems, err := h.Store.ListItems(storage.ListItemsParams{})
	if err != nil {
		return fail(c, err)
	}
	lowStock, outOfStock, totalStock := 0, 0, 0
	for _, it := range items {
		totalStock += it.StockQuantity
		if it.StockQuantity == 0 {
			outOfStock++
		}
		if it.StockQuantity <= it.LowStockThreshold {
			lowStock++
		}
	}

	todayRep, err := h.Analytics.DailySummary(&today, &now, 0)
	if err != nil {
		return fail(c, err)
	}
	weekRep, err := h.Analytics.DailySummary(&weekAgo, &now, 0)
	if err != nil {
		return fail(c, err)
	}
	monthRep, err := h.Analytics.DailySummary(&monthAgo, &now, 0)
	if err != nil {
		return fail(c, err)
	}

	recent, _, err := h.Store.ListSales(storage.ListSalesParams{Page: 1, Limit: 5})
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.Map{
		"overview": fiber.Map{
			"totalItems":        totalItems,
			"totalStock":        totalStock,
			"lowStockItems":     lowStock,
			"outOfStockItems":   outOfStock,
			"todaySales":        todayRep.TotalRevenue,
			"todayTransactions": todayRep.TotalTransactions,
			"weekSales":         weekRep.TotalRevenue,
			"monthSales":        monthRep.TotalRevenue,
		},
		"recentSales": recent,
	})
}

// SalesTrends returns the sparse daily buckets for the trailing N days.
func (h *DashboardHandler) SalesTrends(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		days = 30
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return ok(c, h.Analytics.DailySalesTrend(start, end))
}
