package kardex

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// ReportInput filtros del reporte valorizado. Todos conjuntivos; WarehouseID
// vacío agrega todas las bodegas del artículo.
type ReportInput struct {
	ArticleID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// Report resumen valorizado de un rango de fechas.
type Report struct {
	ArticleID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Opening     decimal.Decimal // saldo de apertura: replay estricto antes del rango
	QuantityIn  decimal.Decimal
	QuantityOut decimal.Decimal
	Closing     decimal.Decimal
	CostIn      decimal.Decimal
	CostOut     decimal.Decimal
}

// BuildReport produce el resumen valorizado del rango: apertura (replay de
// movimientos estrictamente anteriores al inicio), totales de entradas y
// salidas en cantidad y monto, y cierre. Solo lectura, sin mutaciones.
func (uc *KardexUseCase) BuildReport(ctx context.Context, input ReportInput) (*Report, error) {
	if input.ArticleID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, domain.ErrInvalidInput
	}
	article, err := uc.articleRepo.GetByID(ctx, input.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}

	opening := decimal.Zero
	if input.From != nil {
		opening, err = uc.movRepo.SumDeltaBefore(ctx, input.ArticleID, input.WarehouseID, *input.From)
		if err != nil {
			return nil, err
		}
	}

	totals, err := uc.movRepo.Totals(ctx, repository.ReportFilter{
		ArticleID:   input.ArticleID,
		WarehouseID: input.WarehouseID,
		From:        input.From,
		To:          input.To,
	})
	if err != nil {
		return nil, err
	}

	return &Report{
		ArticleID:   input.ArticleID,
		WarehouseID: input.WarehouseID,
		From:        input.From,
		To:          input.To,
		Opening:     opening,
		QuantityIn:  totals.QuantityIn,
		QuantityOut: totals.QuantityOut,
		Closing:     opening.Add(totals.QuantityIn).Sub(totals.QuantityOut),
		CostIn:      totals.CostIn,
		CostOut:     totals.CostOut,
	}, nil
}
