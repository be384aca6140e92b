package kardex_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	kardexdom "github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// memStore estado compartido de los repositorios en memoria.
// El fakeTxRunner toma una foto antes del callback y la restaura si falla,
// emulando el rollback transaccional de PostgreSQL.
type memStore struct {
	articles   map[string]*entity.Article
	warehouses map[string]*entity.Warehouse
	lots       []entity.Lot
	movements  []*entity.Movement
	nextLotID  int64
	nextMovID  int64
}

func newMemStore() *memStore {
	return &memStore{
		articles:   make(map[string]*entity.Article),
		warehouses: make(map[string]*entity.Warehouse),
		nextLotID:  1,
		nextMovID:  1,
	}
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		articles:   make(map[string]*entity.Article, len(s.articles)),
		warehouses: make(map[string]*entity.Warehouse, len(s.warehouses)),
		nextLotID:  s.nextLotID,
		nextMovID:  s.nextMovID,
	}
	for id, a := range s.articles {
		cp := *a
		c.articles[id] = &cp
	}
	for id, w := range s.warehouses {
		cp := *w
		c.warehouses[id] = &cp
	}
	c.lots = append([]entity.Lot(nil), s.lots...)
	for _, m := range s.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	return c
}

func (s *memStore) addArticle(id string, cost, price decimal.Decimal) {
	s.articles[id] = &entity.Article{ID: id, Code: id, Name: "art-" + id, Cost: cost, Price: price}
}

func (s *memStore) addWarehouse(id string) {
	s.warehouses[id] = &entity.Warehouse{ID: id, Name: "bodega-" + id}
}

func (s *memStore) addLot(articleID, warehouseID string, balance decimal.Decimal, exp *time.Time) int64 {
	id := s.nextLotID
	s.nextLotID++
	s.lots = append(s.lots, entity.Lot{
		ID:             id,
		ArticleID:      articleID,
		WarehouseID:    warehouseID,
		ExpirationDate: exp,
		Quantity:       balance,
		Balance:        balance,
	})
	s.articles[articleID].Stock = s.articles[articleID].Stock.Add(balance)
	return id
}

func (s *memStore) lotByID(id int64) *entity.Lot {
	for i := range s.lots {
		if s.lots[i].ID == id {
			return &s.lots[i]
		}
	}
	return nil
}

// ── Repositorios en memoria ──

type memLotRepo struct{ s *memStore }

func (r *memLotRepo) pairLots(articleID, warehouseID string) []entity.Lot {
	var lots []entity.Lot
	for _, l := range r.s.lots {
		if l.ArticleID == articleID && l.WarehouseID == warehouseID {
			lots = append(lots, l)
		}
	}
	kardexdom.SortFIFO(lots)
	return lots
}

func (r *memLotRepo) ListForUpdate(_ context.Context, articleID, warehouseID string) ([]entity.Lot, error) {
	return r.pairLots(articleID, warehouseID), nil
}

func (r *memLotRepo) List(_ context.Context, articleID, warehouseID string) ([]entity.Lot, error) {
	return r.pairLots(articleID, warehouseID), nil
}

func (r *memLotRepo) SumBalance(_ context.Context, articleID, warehouseID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range r.s.lots {
		if l.ArticleID == articleID && l.WarehouseID == warehouseID {
			sum = sum.Add(l.Balance)
		}
	}
	return sum, nil
}

func (r *memLotRepo) SumBalanceByArticle(_ context.Context, articleID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range r.s.lots {
		if l.ArticleID == articleID {
			sum = sum.Add(l.Balance)
		}
	}
	return sum, nil
}

func (r *memLotRepo) Create(_ context.Context, lot *entity.Lot) error {
	lot.ID = r.s.nextLotID
	r.s.nextLotID++
	r.s.lots = append(r.s.lots, *lot)
	return nil
}

func (r *memLotRepo) ApplyDelta(_ context.Context, lotID int64, delta decimal.Decimal) error {
	for i := range r.s.lots {
		if r.s.lots[i].ID != lotID {
			continue
		}
		if r.s.lots[i].Balance.Add(delta).IsNegative() {
			return domain.ErrIntegrity
		}
		r.s.lots[i].Quantity = r.s.lots[i].Quantity.Add(delta)
		r.s.lots[i].Balance = r.s.lots[i].Balance.Add(delta)
		return nil
	}
	return domain.ErrIntegrity
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	m.ID = r.s.nextMovID
	r.s.nextMovID++
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			if a, ok := r.s.articles[m.ArticleID]; ok {
				cp.ArticleName = a.Name
			}
			if w, ok := r.s.warehouses[m.WarehouseID]; ok {
				cp.WarehouseName = w.Name
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) pairChrono(articleID, warehouseID string) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.ArticleID == articleID && m.WarehouseID == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memMovementRepo) ListByPair(_ context.Context, articleID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	all := r.pairChrono(articleID, warehouseID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memMovementRepo) ListForReplay(_ context.Context, articleID, warehouseID string) ([]*entity.Movement, error) {
	return r.pairChrono(articleID, warehouseID), nil
}

func (r *memMovementRepo) UpdateRunningBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	for _, m := range r.s.movements {
		if m.ID == id {
			m.RunningBalance = balance
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memMovementRepo) SumDeltaBefore(_ context.Context, articleID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ArticleID != articleID || !m.Date.Before(before) {
			continue
		}
		if warehouseID != "" && m.WarehouseID != warehouseID {
			continue
		}
		sum = sum.Add(m.Delta())
	}
	return sum, nil
}

func (r *memMovementRepo) Totals(_ context.Context, filter repository.ReportFilter) (repository.ReportTotals, error) {
	var t repository.ReportTotals
	for _, m := range r.s.movements {
		if m.ArticleID != filter.ArticleID {
			continue
		}
		if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.From != nil && m.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Date.After(*filter.To) {
			continue
		}
		t.QuantityIn = t.QuantityIn.Add(m.QuantityIn)
		t.QuantityOut = t.QuantityOut.Add(m.QuantityOut)
		if m.QuantityIn.IsPositive() {
			t.CostIn = t.CostIn.Add(m.TotalCost)
		} else {
			t.CostOut = t.CostOut.Add(m.TotalCost)
		}
	}
	return t, nil
}

type memArticleRepo struct{ s *memStore }

func (r *memArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	a, ok := r.s.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memArticleRepo) IncrementStock(_ context.Context, id string, delta decimal.Decimal) error {
	a, ok := r.s.articles[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Stock = a.Stock.Add(delta)
	return nil
}

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

// fakeTxRunner emula la transacción con foto y restauración del estado.
// wrapLot permite interponer un repo de lotes defectuoso para los tests de
// integridad.
type fakeTxRunner struct {
	s       *memStore
	wrapLot func(repository.LotRepository) repository.LotRepository
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	articleRepo repository.ArticleRepository,
) error) error {
	snapshot := r.s.clone()
	var lotRepo repository.LotRepository = &memLotRepo{s: r.s}
	if r.wrapLot != nil {
		lotRepo = r.wrapLot(lotRepo)
	}
	err := fn(&memMovementRepo{s: r.s}, lotRepo, &memArticleRepo{s: r.s})
	if err != nil {
		*r.s = *snapshot
	}
	return err
}
