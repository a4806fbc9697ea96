package seeders

import "github.com/shopspring/decimal"

type catalogItem struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	DurationMinutes int
}

// Базовый прайс мастерской. Цены в песо.
var catalogData = []catalogItem{
	{Name: "Cambio de aceite", Description: "Замена масла и масляного фильтра", Price: decimal.NewFromInt(35000), DurationMinutes: 30},
	{Name: "Alineación y balanceo", Description: "Развал-схождение и балансировка колёс", Price: decimal.NewFromInt(25000), DurationMinutes: 60},
	{Name: "Frenos", Description: "Замена тормозных колодок, проверка дисков", Price: decimal.NewFromInt(60000), DurationMinutes: 90},
	{Name: "Diagnóstico", Description: "Компьютерная диагностика", Price: decimal.NewFromInt(20000), DurationMinutes: 30},
	{Name: "Cambio de batería", Description: "Замена аккумулятора", Price: decimal.NewFromInt(15000), DurationMinutes: 30},
	{Name: "Mantención general", Description: "Плановое ТО по регламенту", Price: decimal.NewFromInt(90000), DurationMinutes: 120},
	{Name: "Suspensión", Description: "Ремонт подвески", Price: decimal.NewFromInt(120000), DurationMinutes: 180},
}
