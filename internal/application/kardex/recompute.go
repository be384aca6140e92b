package kardex

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// Recompute repara la deriva de running_balance del par (artículo, bodega):
// recorre todos sus movimientos en orden (date, id) ascendente acumulando
// quantity_in - quantity_out desde cero y reescribe cada saldo que no coincida.
// No toca lotes ni el contador agregado (se asumen correctos; aquí solo se
// reparan las fotos del libro). Corre en una transacción: cualquier fallo
// revierte todo. Es idempotente: una segunda corrida no corrige nada.
// Devuelve cuántos movimientos fueron corregidos.
func (uc *KardexUseCase) Recompute(ctx context.Context, articleID, warehouseID string) (int, error) {
	if articleID == "" || warehouseID == "" {
		return 0, domain.ErrInvalidInput
	}
	if err := uc.checkRefs(ctx, articleID, warehouseID); err != nil {
		return 0, err
	}

	corrected := 0
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.LotRepository,
		_ repository.ArticleRepository,
	) error {
		movements, err := movRepo.ListForReplay(ctx, articleID, warehouseID)
		if err != nil {
			return err
		}
		running := decimal.Zero
		for _, m := range movements {
			running = running.Add(m.Delta())
			if m.RunningBalance.Equal(running) {
				continue
			}
			if err := movRepo.UpdateRunningBalance(ctx, m.ID, running); err != nil {
				return err
			}
			corrected++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if corrected > 0 {
		uc.log.Warn().
			Str("article_id", articleID).
			Str("warehouse_id", warehouseID).
			Int("corregidos", corrected).
			Msg("recomputación de kardex corrigió saldos derivados")
	}
	return corrected, nil
}
