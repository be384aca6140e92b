package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article representa un artículo del inventario.
// Stock es el contador agregado denormalizado: suma de los saldos de todos sus
// lotes (todas las bodegas). Solo el motor de kardex lo escribe, siempre con
// incremento atómico dentro de la misma transacción del movimiento.
type Article struct {
	ID          string
	Code        string // código único del artículo
	Name        string
	Description string
	UnitMeasure string
	Stock       decimal.Decimal // agregado: SUM(lots.balance) del artículo
	Cost        decimal.Decimal
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
