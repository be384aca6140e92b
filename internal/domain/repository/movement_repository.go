package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// ReportFilter filtros del reporte valorizado de kardex. Todos conjuntivos (AND).
type ReportFilter struct {
	ArticleID   string
	WarehouseID string // vacío = todas las bodegas
	From        *time.Time
	To          *time.Time
}

// ReportTotals totales del rango: cantidades y montos de entradas y salidas.
type ReportTotals struct {
	QuantityIn  decimal.Decimal
	QuantityOut decimal.Decimal
	CostIn      decimal.Decimal
	CostOut     decimal.Decimal
}

// MovementRepository persistencia del libro de movimientos (append-only).
type MovementRepository interface {
	// Create persiste un movimiento y asigna su ID monotónico.
	Create(ctx context.Context, m *entity.Movement) error

	// GetByID devuelve el movimiento con nombres de artículo y bodega (JOIN).
	// Devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)

	// ListByPair devuelve el kardex del par ordenado por (date, id) ascendente.
	ListByPair(ctx context.Context, articleID, warehouseID string, limit, offset int) ([]*entity.Movement, error)

	// ListForReplay devuelve todos los movimientos del par en orden (date, id)
	// ascendente bloqueando las filas, para la recomputación de saldos.
	ListForReplay(ctx context.Context, articleID, warehouseID string) ([]*entity.Movement, error)

	// UpdateRunningBalance reescribe el running_balance de un movimiento.
	// Única mutación permitida sobre el libro: la usa solo la recomputación.
	UpdateRunningBalance(ctx context.Context, id int64, balance decimal.Decimal) error

	// SumDeltaBefore suma quantity_in - quantity_out de los movimientos
	// estrictamente anteriores a la fecha (saldo de apertura del reporte).
	// warehouseID vacío agrega todas las bodegas.
	SumDeltaBefore(ctx context.Context, articleID, warehouseID string, before time.Time) (decimal.Decimal, error)

	// Totals calcula los totales de entradas/salidas del filtro.
	Totals(ctx context.Context, filter ReportFilter) (ReportTotals, error)
}
