package http

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/dto"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
)

// validate instancia compartida del validador de structs.
var validate = validator.New()

// KardexHandler maneja las peticiones HTTP del libro de kardex (protegido).
type KardexHandler struct {
	uc *kardex.KardexUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.KardexUseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// kardexError traduce los errores del dominio a respuestas HTTP.
// El orden importa: los errores tipados van antes que sus centinelas.
func kardexError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente: disponible %s, solicitado %s (faltan %s)",
				insufficient.Available, insufficient.Requested, insufficient.Shortfall()),
		})
	}
	var integrity *domain.IntegrityError
	if errors.As(err, &integrity) || errors.Is(err, domain.ErrIntegrity) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "INTEGRITY",
			Message: "inconsistencia de stock detectada; la operación fue revertida, reintente",
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo o bodega no encontrado"})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de kardex
// @Description  Registra una entrada o salida en el libro. Exactamente una de
//
//	quantity_in/quantity_out debe ser positiva. Las salidas agotan
//	lotes por vencimiento (FIFO) y se rechazan si exceden el saldo.
//
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento a registrar"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movements [post]
func (h *KardexHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.RegisterMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	mov, err := h.uc.RegisterMovement(c.Context(), kardex.MovementInput{
		ArticleID:      req.ArticleID,
		WarehouseID:    req.WarehouseID,
		Type:           req.Type,
		Date:           date,
		QuantityIn:     req.QuantityIn,
		QuantityOut:    req.QuantityOut,
		UnitCost:       req.UnitCost,
		UnitPrice:      req.UnitPrice,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Notes:          req.Notes,
		ActorID:        userID,
		ExpirationDate: req.ExpirationDate,
		PurchaseID:     req.PurchaseID,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementToResponse(mov))
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Description  Registra TRANSFER_OUT en origen y TRANSFER_IN en destino en una
//
//	sola transacción; si el origen no tiene saldo no se aplica nada.
//
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "traslado"
// @Success      201   {object}  map[string]dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/transfers [post]
func (h *KardexHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	out, in, err := h.uc.Transfer(c.Context(), kardex.TransferInput{
		ArticleID:       req.ArticleID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        req.Quantity,
		UnitCost:        req.UnitCost,
		Date:            time.Now(),
		Notes:           req.Notes,
		ActorID:         userID,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"out": dto.MovementToResponse(out),
		"in":  dto.MovementToResponse(in),
	})
}

// GetBalance godoc
// @Summary      Saldo actual de un par (artículo, bodega)
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        article_id    query  string  true   "ID del artículo"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/balance [get]
func (h *KardexHandler) GetBalance(c *fiber.Ctx) error {
	articleID := c.Query("article_id")
	warehouseID := c.Query("warehouse_id")

	balance, err := h.uc.Balance(c.Context(), articleID, warehouseID)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ArticleID:   articleID,
		WarehouseID: warehouseID,
		Balance:     balance,
	})
}

// GetHistory godoc
// @Summary      Kardex cronológico de un par (artículo, bodega)
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        article_id    query  string  true   "ID del artículo"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        limit         query  int     false  "máximo de filas (default 50)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/movements [get]
func (h *KardexHandler) GetHistory(c *fiber.Ctx) error {
	articleID := c.Query("article_id")
	warehouseID := c.Query("warehouse_id")
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	movements, err := h.uc.History(c.Context(), articleID, warehouseID, limit, offset)
	if err != nil {
		return kardexError(c, err)
	}
	resp := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.MovementToResponse(m))
	}
	return c.JSON(fiber.Map{
		"total":     len(resp),
		"movements": resp,
	})
}

// GetReport godoc
// @Summary      Reporte valorizado de kardex
// @Description  Apertura, entradas, salidas y cierre del rango, en cantidad y monto.
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        article_id    query  string  true   "ID del artículo"
// @Param        warehouse_id  query  string  false  "bodega (vacío = todas)"
// @Param        from          query  string  false  "fecha inicial (RFC3339)"
// @Param        to            query  string  false  "fecha final (RFC3339)"
// @Success      200  {object}  dto.KardexReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/report [get]
func (h *KardexHandler) GetReport(c *fiber.Ctx) error {
	input := kardex.ReportInput{
		ArticleID:   c.Query("article_id"),
		WarehouseID: c.Query("warehouse_id"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida (RFC3339)"})
		}
		input.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida (RFC3339)"})
		}
		input.To = &t
	}

	report, err := h.uc.BuildReport(c.Context(), input)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.KardexReportResponse{
		ArticleID:   report.ArticleID,
		WarehouseID: report.WarehouseID,
		From:        report.From,
		To:          report.To,
		Opening:     report.Opening,
		QuantityIn:  report.QuantityIn,
		QuantityOut: report.QuantityOut,
		Closing:     report.Closing,
		CostIn:      report.CostIn,
		CostOut:     report.CostOut,
	})
}

// Recompute godoc
// @Summary      Recomputar saldos de un par (artículo, bodega)
// @Description  Reproduce el libro en orden cronológico y corrige los
//
//	running_balance que no coincidan. No toca lotes ni movimientos.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        article_id    query  string  true  "ID del artículo"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.RecomputeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/recompute [post]
func (h *KardexHandler) Recompute(c *fiber.Ctx) error {
	articleID := c.Query("article_id")
	warehouseID := c.Query("warehouse_id")

	corrected, err := h.uc.Recompute(c.Context(), articleID, warehouseID)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.RecomputeResponse{
		ArticleID:   articleID,
		WarehouseID: warehouseID,
		Corrected:   corrected,
	})
}
