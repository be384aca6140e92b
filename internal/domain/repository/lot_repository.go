package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// LotRepository persistencia de lotes (fuente de verdad del stock disponible).
type LotRepository interface {
	// ListForUpdate devuelve los lotes del par (artículo, bodega) en orden FIFO
	// (vencimiento asc, nulos al final, id asc) bloqueando las filas
	// (SELECT FOR UPDATE). Usar siempre dentro de una transacción.
	ListForUpdate(ctx context.Context, articleID, warehouseID string) ([]entity.Lot, error)

	// List devuelve los lotes del par sin bloquear (consulta).
	List(ctx context.Context, articleID, warehouseID string) ([]entity.Lot, error)

	// SumBalance devuelve el saldo actual del par: SUM(balance) de sus lotes.
	SumBalance(ctx context.Context, articleID, warehouseID string) (decimal.Decimal, error)

	// SumBalanceByArticle devuelve el saldo del artículo en todas las bodegas.
	SumBalanceByArticle(ctx context.Context, articleID string) (decimal.Decimal, error)

	// Create inserta un lote nuevo y asigna su ID.
	Create(ctx context.Context, lot *entity.Lot) error

	// ApplyDelta aplica el mismo delta a quantity y balance de forma atómica
	// (UPDATE ... SET balance = balance + δ), con guarda balance + δ >= 0.
	// Si la guarda falla (actualización concurrente perdida) devuelve
	// domain.ErrIntegrity.
	ApplyDelta(ctx context.Context, lotID int64, delta decimal.Decimal) error
}
