package kardex

import (
	"context"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de kardex.
// Quien ya tiene una transacción abierta no usa Run: llama directamente a
// RegisterMovementInTx con sus propios repositorios, de modo que la decisión de
// Commit/Rollback queda siempre en el caller más externo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
	) error) error
}
