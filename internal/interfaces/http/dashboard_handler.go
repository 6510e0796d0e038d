package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/analytics"
)

// DashboardHandler maneja el dashboard del mes en curso.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve el dashboard del mes en curso según el rol del token.
// GET /api/dashboard
//
// Admin: top_employees y categories. Empleado: summary.
// Las fechas se calculan en el servidor (UTC).
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetDashboard(c.UserContext(), GetUserID(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
