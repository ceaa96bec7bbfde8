package handlers

import (
	"ministore/internal/config"
	"ministore/internal/security"
	"ministore/internal/services"
	"ministore/internal/storage"
)

type Deps struct {
	ItemHandler      *ItemHandler
	SaleHandler      *SaleHandler
	DashboardHandler *DashboardHandler
	ReportHandler    *ReportHandler
	AuthHandler      *AuthHandler
}

func NewDeps(store storage.Store, cfg config.Config, auth *security.AuthService) *Deps {
	itemSvc := services.NewItemService(store)
	salesSvc := services.NewSalesService(store)
	alertSvc := services.NewAlertService(store, cfg.SlowMovingDays)
	analyticsSvc := services.NewAnalyticsService(store)

	return &Deps{
		ItemHandler:      &ItemHandler{Items: itemSvc},
		SaleHandler:      &SaleHandler{Sales: salesSvc},
		DashboardHandler: &DashboardHandler{Store: store, Alert: alertSvc, Analytics: analyticsSvc},
		ReportHandler:    &ReportHandler{Analytics: analyticsSvc},
		AuthHandler:      &AuthHandler{Auth: auth},
	}
}
