package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/application/dto"
)

// AuditHandler lectura de la bitácora (solo admin).
type AuditHandler struct {
	uc *audit.ListUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.ListUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Bitácora, más recientes primero
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo 200, por defecto 50"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if page.Offset < 0 {
		return validation(c, "offset no puede ser negativo")
	}
	page.DefaultPage()
	entries, err := h.uc.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.AuditResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuditResponse{
			ID:          e.ID,
			Action:      e.Action,
			PerformedBy: e.PerformedBy,
			CreatedAt:   e.CreatedAt,
		})
	}
	return c.JSON(dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
