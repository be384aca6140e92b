// Package kardex contiene la lógica pura del motor de kardex (servicios de dominio).
package kardex

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// LotDeduction cantidad a descontar de un lote concreto.
type LotDeduction struct {
	LotID    int64
	Quantity decimal.Decimal
}

// DepletionPlan resultado de planear una salida FIFO sobre una foto de lotes.
// Remaining > 0 significa que los lotes no alcanzan para cubrir la salida.
type DepletionPlan struct {
	Deductions []LotDeduction
	Remaining  decimal.Decimal
}

// Covered indica si la salida quedó totalmente cubierta por los lotes.
func (p DepletionPlan) Covered() bool {
	return p.Remaining.IsZero()
}

// SortFIFO ordena los lotes en orden de consumo: vencimiento ascendente
// (los lotes sin vencimiento al final) y, a igual vencimiento, id ascendente.
func SortFIFO(lots []entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i].ExpirationDate, lots[j].ExpirationDate
		switch {
		case a == nil && b == nil:
			return lots[i].ID < lots[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return lots[i].ID < lots[j].ID
		default:
			return a.Before(*b)
		}
	})
}

// PlanFIFO recorre los lotes en orden FIFO consumiendo de cada uno
// min(restante, saldo del lote) hasta cubrir quantity. Los lotes con saldo
// cero se saltan. No muta los lotes: devuelve el plan de descuentos.
func PlanFIFO(lots []entity.Lot, quantity decimal.Decimal) DepletionPlan {
	ordered := make([]entity.Lot, len(lots))
	copy(ordered, lots)
	SortFIFO(ordered)

	plan := DepletionPlan{Remaining: quantity}
	for _, lot := range ordered {
		if plan.Remaining.IsZero() {
			break
		}
		if !lot.Balance.IsPositive() {
			continue
		}
		take := decimal.Min(plan.Remaining, lot.Balance)
		plan.Deductions = append(plan.Deductions, LotDeduction{LotID: lot.ID, Quantity: take})
		plan.Remaining = plan.Remaining.Sub(take)
	}
	return plan
}

// OldestLot devuelve el lote de creación más antigua (menor id) o nil si no hay.
// Las entradas se acumulan ahí: no necesitan orden FIFO porque solo aumentan saldo.
func OldestLot(lots []entity.Lot) *entity.Lot {
	var oldest *entity.Lot
	for i := range lots {
		if oldest == nil || lots[i].ID < oldest.ID {
			oldest = &lots[i]
		}
	}
	return oldest
}

// SumBalances suma los saldos de una foto de lotes (saldo actual del par
// artículo-bodega según la fuente de verdad).
func SumBalances(lots []entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.Balance)
	}
	return total
}
