package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/taxonomy"
)

// CategoryHandler endpoints de la taxonomía comisionable.
type CategoryHandler struct {
	uc *taxonomy.RateResolver
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *taxonomy.RateResolver) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// List godoc
// @Summary      Listar categorías con sus subcategorías
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría (tasa directa opcional)
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CategoryRequest  true  "name, code, commission_rate"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddCategory(c.UserContext(), in, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "ID de la categoría"
// @Param        body  body      dto.CategoryRequest  true  "name, code, commission_rate"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateCategory(c.UserContext(), c.Params("id"), in, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSubCategory godoc
// @Summary      Crear subcategoría (la primera borra la tasa directa del padre)
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "ID de la categoría padre"
// @Param        body  body      dto.SubCategoryRequest  true  "name, commission_rate"
// @Success      201   {object}  dto.SubCategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubCategory(c *fiber.Ctx) error {
	var in dto.SubCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddSubCategory(c.UserContext(), c.Params("id"), in, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSubCategory godoc
// @Summary      Actualizar subcategoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "ID de la subcategoría"
// @Param        body  body      dto.SubCategoryRequest  true  "name, commission_rate"
// @Success      200   {object}  dto.SubCategoryResponse
// @Router       /api/subcategories/{id} [put]
func (h *CategoryHandler) UpdateSubCategory(c *fiber.Ctx) error {
	var in dto.SubCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSubCategory(c.UserContext(), c.Params("id"), in, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Commissionable godoc
// @Summary      Destinos contra los que se puede registrar una venta
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CommissionableTargetDTO
// @Router       /api/categories/commissionable [get]
func (h *CategoryHandler) Commissionable(c *fiber.Ctx) error {
	out, err := h.uc.CommissionableTargets(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
