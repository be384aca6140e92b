package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta multi-línea. Cada línea genera un movimiento de
// kardex tipo SALE dentro de la misma transacción de la venta.
type Sale struct {
	ID          string
	WarehouseID string
	Number      string
	CustomerRef string // identificación libre del cliente (CRM externo)
	Date        time.Time
	Total       decimal.Decimal
	CreatedAt   time.Time
	CreatedBy   string
}

// SaleDetail línea de venta.
type SaleDetail struct {
	ID        string
	SaleID    string
	ArticleID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
