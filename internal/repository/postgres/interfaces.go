package postgres

import "github.com/andresuchdata/m2go-inventory/internal/repository"

var (
	_ repository.CatalogRepository  = (*catalogRepository)(nil)
	_ repository.CountRepository    = (*countRepository)(nil)
	_ repository.BalanceRepository  = (*balanceRepository)(nil)
	_ repository.SettingsRepository = (*settingsRepository)(nil)
	_ repository.OrderRepository    = (*orderRepository)(nil)
)
