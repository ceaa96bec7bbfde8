package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ministore/internal/domain"
	"ministore/internal/services"
)

type ReportHandler struct {
	Analytics *services.AnalyticsService
}

// DailySummary reports totals and per-day buckets. Explicit startDate and
// endDate win over the days window; with neither the trailing 30 days apply.
func (h *ReportHandler) DailySummary(c *fiber.Ctx) error {
	from, to := dateRange(c)
	days := c.QueryInt("days", 0)
	report, err := h.Analytics.DailySummary(from, to, days)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, report)
}

func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	from, to := dateRange(c)
	limit := c.QueryInt("limit", 10)
	return ok(c, h.Analytics.TopSellingProducts(from, to, limit))
}

// Inventory reports stock status and valuation, filterable by category and
// by status (in_stock, low_stock, out_of_stock).
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	report, err := h.Analytics.InventoryReport(c.Query("category"), c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, report)
}

// Sales reports the range's totals with a payment-method breakdown.
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to := dateRange(c)
	method := domain.PaymentMethod(c.Query("paymentMethod"))
	if method != "" && !method.Valid() {
		return fail(c, domain.NewValidationError("paymentMethod", "paymentMethod must be one of: cash, credit, mobile_payment"))
	}
	report, err := h.Analytics.SalesReport(from, to, method)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, report)
}

func (h *ReportHandler) SalesTrends(c *fiber.Ctx) error {
	from, to := dateRange(c)
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return ok(c, h.Analytics.DailySalesTrend(start, end))
}
