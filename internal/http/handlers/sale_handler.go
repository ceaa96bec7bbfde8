package handlers

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "ministore/internal/log"
	"ministore/internal/services"
)

type SaleHandler struct {
	Sales *services.SalesService
}

func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req services.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	sale, err := h.Sales.RecordSale(req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "sale.record", map[string]any{
		"sale_id": sale.ID,
		"invoice": sale.InvoiceNumber,
		"total":   sale.TotalAmount,
	})
	return created(c, sale)
}

func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	from, to := dateRange(c)
	sales, total, err := h.Sales.ListSales(page, limit, from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    sales,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, err := h.Sales.GetSale(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, sale)
}

// dateRange reads optional startDate/endDate query params (YYYY-MM-DD). The
// end bound is inclusive of the whole end day.
func dateRange(c *fiber.Ctx) (*time.Time, *time.Time) {
	var from, to *time.Time
	if v := c.Query("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1).Add(-time.Millisecond)
			to = &end
		}
	}
	return from, to
}
