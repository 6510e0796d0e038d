package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/reports"
	"github.com/shayar/CommissionApp/internal/application/sales"
)

// SaleHandler registro de ventas e historial propio del empleado.
type SaleHandler struct {
	recorder *sales.Recorder
	reports  *reports.Aggregator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(recorder *sales.Recorder, agg *reports.Aggregator) *SaleHandler {
	return &SaleHandler{recorder: recorder, reports: agg}
}

// Log godoc
// @Summary      Registrar venta del usuario autenticado
// @Description  La comisión se calcula con la tasa vigente y queda congelada en la venta.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.LogSaleRequest  true  "target_kind, target_id, amount, payment_type"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Log(c *fiber.Ctx) error {
	var in dto.LogSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.LogSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de ventas del usuario autenticado
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        start_date      query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        end_date        query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        category_id     query  string  false  "incluye subcategorías y ventas directas"
// @Param        subcategory_id  query  string  false  "subcategoría"
// @Success      200  {object}  dto.SalesHistoryDTO
// @Router       /api/sales/history [get]
func (h *SaleHandler) History(c *fiber.Ctx) error {
	rng, err := parseDateRange(c)
	if err != nil {
		return validation(c, err.Error())
	}
	out, err := h.reports.EmployeeHistory(c.UserContext(), GetUserID(c), dto.HistoryFilter{
		Range:         rng,
		CategoryID:    c.Query("category_id"),
		SubCategoryID: c.Query("subcategory_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PaymentTypes godoc
// @Summary      Medios de pago aceptados
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  string
// @Router       /api/sales/payment-types [get]
func (h *SaleHandler) PaymentTypes(c *fiber.Ctx) error {
	return c.JSON(h.recorder.PaymentTypes())
}
