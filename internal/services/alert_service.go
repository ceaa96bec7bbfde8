package services

import (
	"fmt"
	"sort"
	"time"

	"ministore/internal/domain"
	applog "ministore/internal/log"
	"ministore/internal/storage"
)

// AlertService derives actionable alerts from a snapshot of the item table
// and the recent sale lines. Nothing is cached; every call is a full
// recomputation.
type AlertService struct {
	Store storage.Store

	// SlowMovingDays is the trailing sales window an item must miss
	// entirely to count as slow moving.
	SlowMovingDays int
}

func NewAlertService(store storage.Store, slowMovingDays int) *AlertService {
	if slowMovingDays <= 0 {
		slowMovingDays = 30
	}
	return &AlertService{Store: store, SlowMovingDays: slowMovingDays}
}

// ComputeAlerts classifies every item as of the given time. Stock alerts are
// an exclusive chain (out of stock beats low stock beats slow moving);
// expiry alerts are evaluated independently, so one item can emit both a
// stock alert and an expiry alert. The result is stable-sorted by severity
// rank, ties keeping discovery order.
//
// A storage failure degrades to an empty set: dashboards render partially
// rather than fail entirely.
func (s *AlertService) ComputeAlerts(asOf time.Time) []domain.Alert {
	items, _, err := s.Store.ListItems(storage.ListItemsParams{})
	if err != nil {
		applog.Error(nil, "alerts.list_items", err, nil)
		return []domain.Alert{}
	}
	since := asOf.AddDate(0, 0, -s.SlowMovingDays)
	recentLines, err := s.Store.ListSaleLineItemsSince(since)
	if err != nil {
		applog.Error(nil, "alerts.recent_sales", err, nil)
		return []domain.Alert{}
	}
	sold := make(map[string]struct{}, len(recentLines))
	for _, ln := range recentLines {
		sold[ln.ItemID] = struct{}{}
	}

	// Expiry is measured in whole days from the start of asOf's day.
	today := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())

	var alerts []domain.Alert
	for _, item := range items {
		switch {
		case item.StockQuantity == 0:
			alerts = append(alerts, domain.Alert{
				Type:          domain.AlertOutOfStock,
				Message:       fmt.Sprintf("%s is out of stock", item.Name),
				Severity:      domain.SeverityCritical,
				ItemID:        item.ID,
				ItemCode:      item.ItemCode,
				ItemName:      item.Name,
				StockQuantity: item.StockQuantity,
			})
		case item.StockQuantity <= item.LowStockThreshold:
			sev := domain.SeverityMedium
			if item.StockQuantity <= 2 {
				sev = domain.SeverityCritical
			} else if item.StockQuantity <= item.LowStockThreshold/2 {
				sev = domain.SeverityHigh
			}
			alerts = append(alerts, domain.Alert{
				Type:          domain.AlertLowStock,
				Message:       fmt.Sprintf("%s is running low (%d remaining)", item.Name, item.StockQuantity),
				Severity:      sev,
				ItemID:        item.ID,
				ItemCode:      item.ItemCode,
				ItemName:      item.Name,
				StockQuantity: item.StockQuantity,
			})
		default:
			if _, ok := sold[item.ID]; !ok {
				alerts = append(alerts, domain.Alert{
					Type:          domain.AlertSlowMoving,
					Message:       fmt.Sprintf("%s hasn't sold in %d days", item.Name, s.SlowMovingDays),
					Severity:      domain.SeverityLow,
					ItemID:        item.ID,
					ItemCode:      item.ItemCode,
					ItemName:      item.Name,
					StockQuantity: item.StockQuantity,
				})
			}
		}

		if item.ExpiryDate != nil {
			days := daysUntil(today, *item.ExpiryDate)
			switch {
			case days < 0:
				alerts = append(alerts, domain.Alert{
					Type:          domain.AlertExpired,
					Message:       fmt.Sprintf("%s has expired", item.Name),
					Severity:      domain.SeverityCritical,
					ItemID:        item.ID,
					ItemCode:      item.ItemCode,
					ItemName:      item.Name,
					StockQuantity: item.StockQuantity,
					DaysToExpiry:  days,
				})
			case days <= 30:
				sev := domain.SeverityMedium
				if days <= 7 {
					sev = domain.SeverityCritical
				} else if days <= 14 {
					sev = domain.SeverityHigh
				}
				alerts = append(alerts, domain.Alert{
					Type:          domain.AlertExpiringSoon,
					Message:       fmt.Sprintf("%s expires in %d days", item.Name, days),
					Severity:      sev,
					ItemID:        item.ID,
					ItemCode:      item.ItemCode,
					ItemName:      item.Name,
					StockQuantity: item.StockQuantity,
					DaysToExpiry:  days,
				})
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return alerts
}

// daysUntil counts whole days from the start of day `from` to `to`,
// rounding partial days up.
func daysUntil(from time.Time, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	// integer division truncates toward zero, which already is ceil for
	// negative durations
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
