package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrIntegrity         = errors.New("inconsistencia de inventario")
)

// InsufficientStockError indica que una salida excede el saldo disponible.
// Se detecta antes de mutar nada: el estado queda intacto.
type InsufficientStockError struct {
	ArticleID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %s, solicitado %s (faltante %s)",
		e.Available, e.Requested, e.Shortfall())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall devuelve la cantidad que falta para cubrir la salida.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// IntegrityError indica que el recorrido FIFO no pudo cubrir una salida ya
// aprobada por la verificación de saldo: una actualización concurrente se coló
// entre la lectura y la mutación. Aborta toda la transacción; el caller debe
// reintentar la operación completa.
type IntegrityError struct {
	ArticleID   string
	WarehouseID string
	Requested   decimal.Decimal
	Remaining   decimal.Decimal
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("inconsistencia de inventario: salida de %s no cubierta por los lotes (faltó %s)",
		e.Requested, e.Remaining)
}

// Unwrap permite errors.Is(err, ErrIntegrity).
func (e *IntegrityError) Unwrap() error { return ErrIntegrity }
