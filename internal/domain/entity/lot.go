package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote de stock: un artículo, una bodega y una fecha de
// vencimiento (opcional). Quantity y Balance se mueven siempre juntos con el
// mismo delta; se conservan ambos campos para una futura distinción
// reservado/disponible. Invariante: Balance >= 0 siempre.
// Un lote agotado no se elimina: puede recibir reposiciones futuras.
type Lot struct {
	ID             int64
	ArticleID      string
	WarehouseID    string
	ExpirationDate *time.Time // nil = sin vencimiento; se agota al final en FIFO
	Quantity       decimal.Decimal
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Expired indica si el lote está vencido respecto a la fecha dada.
func (l *Lot) Expired(at time.Time) bool {
	return l.ExpirationDate != nil && l.ExpirationDate.Before(at)
}
