package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de kardex.
const (
	MovementTypeAdjustment  = "ADJUSTMENT"   // ajuste manual / conteo físico
	MovementTypePurchase    = "PURCHASE"     // entrada por compra
	MovementTypeSale        = "SALE"         // salida por venta
	MovementTypeTransferIn  = "TRANSFER_IN"  // entrada por traslado
	MovementTypeTransferOut = "TRANSFER_OUT" // salida por traslado
	MovementTypeReturn      = "RETURN"       // entrada por devolución
)

// MovementTypes tipos válidos, para validación.
var MovementTypes = []string{
	MovementTypeAdjustment,
	MovementTypePurchase,
	MovementTypeSale,
	MovementTypeTransferIn,
	MovementTypeTransferOut,
	MovementTypeReturn,
}

// ValidMovementType indica si el tipo es uno de los soportados.
func ValidMovementType(t string) bool {
	for _, mt := range MovementTypes {
		if mt == t {
			return true
		}
	}
	return false
}

// Movement es una entrada inmutable del libro de kardex: registra un único
// evento de entrada o salida y el saldo (artículo, bodega) resultante.
// Exactamente una de QuantityIn/QuantityOut es positiva; ambas son >= 0.
// RunningBalance es una foto al momento del movimiento, no se recalcula al leer;
// solo el procedimiento de recomputación puede reescribirla.
type Movement struct {
	ID             int64 // monotónico (bigserial); ordenar por (Date, ID)
	Date           time.Time
	Type           string
	DocumentType   string
	DocumentNumber string
	ArticleID      string
	WarehouseID    string
	QuantityIn     decimal.Decimal
	QuantityOut    decimal.Decimal
	RunningBalance decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	UnitPrice      *decimal.Decimal
	TotalPrice     *decimal.Decimal
	Notes          string
	ActorID        string
	SaleID         *string // referencia opcional al documento origen
	PurchaseID     *string
	TransferID     *string
	CreatedAt      time.Time

	// Campos de presentación (JOIN con artículo y bodega; no se persisten aquí).
	ArticleName   string
	WarehouseName string
}

// Delta devuelve QuantityIn - QuantityOut.
func (m *Movement) Delta() decimal.Decimal {
	return m.QuantityIn.Sub(m.QuantityOut)
}
