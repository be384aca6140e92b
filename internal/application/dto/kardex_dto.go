package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/kardex/movements.
// Exactamente una de quantity_in/quantity_out debe ser positiva.
type RegisterMovementRequest struct {
	ArticleID      string           `json:"article_id" validate:"required"`
	WarehouseID    string           `json:"warehouse_id" validate:"required"`
	Type           string           `json:"type" validate:"required,oneof=ADJUSTMENT PURCHASE SALE TRANSFER_IN TRANSFER_OUT RETURN"`
	Date           *time.Time       `json:"date,omitempty"`
	QuantityIn     decimal.Decimal  `json:"quantity_in"`
	QuantityOut    decimal.Decimal  `json:"quantity_out"`
	UnitCost       decimal.Decimal  `json:"unit_cost"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	DocumentType   string           `json:"document_type,omitempty"`
	DocumentNumber string           `json:"document_number,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	PurchaseID     *string          `json:"purchase_id,omitempty"`
}

// TransferRequest body para POST /api/kardex/transfers.
type TransferRequest struct {
	ArticleID       string          `json:"article_id" validate:"required"`
	FromWarehouseID string          `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string          `json:"to_warehouse_id" validate:"required,nefield=FromWarehouseID"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Notes           string          `json:"notes,omitempty"`
}

// MovementResponse representación HTTP de un movimiento de kardex.
type MovementResponse struct {
	ID             int64            `json:"id"`
	Date           time.Time        `json:"date"`
	Type           string           `json:"type"`
	DocumentType   string           `json:"document_type,omitempty"`
	DocumentNumber string           `json:"document_number,omitempty"`
	ArticleID      string           `json:"article_id"`
	ArticleName    string           `json:"article_name,omitempty"`
	WarehouseID    string           `json:"warehouse_id"`
	WarehouseName  string           `json:"warehouse_name,omitempty"`
	QuantityIn     decimal.Decimal  `json:"quantity_in"`
	QuantityOut    decimal.Decimal  `json:"quantity_out"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
	UnitCost       decimal.Decimal  `json:"unit_cost"`
	TotalCost      decimal.Decimal  `json:"total_cost"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice     *decimal.Decimal `json:"total_price,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	ActorID        string           `json:"actor_id,omitempty"`
	SaleID         *string          `json:"sale_id,omitempty"`
	PurchaseID     *string          `json:"purchase_id,omitempty"`
	TransferID     *string          `json:"transfer_id,omitempty"`
}

// MovementToResponse mapea la entidad al DTO de respuesta.
func MovementToResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		Date:           m.Date,
		Type:           m.Type,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		ArticleID:      m.ArticleID,
		ArticleName:    m.ArticleName,
		WarehouseID:    m.WarehouseID,
		WarehouseName:  m.WarehouseName,
		QuantityIn:     m.QuantityIn,
		QuantityOut:    m.QuantityOut,
		RunningBalance: m.RunningBalance,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		UnitPrice:      m.UnitPrice,
		TotalPrice:     m.TotalPrice,
		Notes:          m.Notes,
		ActorID:        m.ActorID,
		SaleID:         m.SaleID,
		PurchaseID:     m.PurchaseID,
		TransferID:     m.TransferID,
	}
}

// BalanceResponse saldo actual de un par (artículo, bodega).
type BalanceResponse struct {
	ArticleID   string          `json:"article_id"`
	WarehouseID string          `json:"warehouse_id"`
	Balance     decimal.Decimal `json:"balance"`
}

// KardexReportResponse resumen valorizado de un rango de fechas.
type KardexReportResponse struct {
	ArticleID   string          `json:"article_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	Opening     decimal.Decimal `json:"opening_balance"`
	QuantityIn  decimal.Decimal `json:"total_in"`
	QuantityOut decimal.Decimal `json:"total_out"`
	Closing     decimal.Decimal `json:"closing_balance"`
	CostIn      decimal.Decimal `json:"total_in_cost"`
	CostOut     decimal.Decimal `json:"total_out_cost"`
}

// RecomputeResponse resultado de la recomputación de saldos.
type RecomputeResponse struct {
	ArticleID   string `json:"article_id"`
	WarehouseID string `json:"warehouse_id"`
	Corrected   int    `json:"corrected"`
}
