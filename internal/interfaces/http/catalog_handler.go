package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dalvarezq/frescura-api/internal/application/catalog"
	"github.com/dalvarezq/frescura-api/internal/application/dto"
)

// CatalogHandler maneja categorías, ubicaciones y umbrales (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "name, urgent_days, warning_days (opcionales)"
// @Success      201   {object}  dto.CategoryDTO
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	category, err := h.uc.CreateCategory(c.Context(), restaurantID, catalog.CategoryInput{
		Name: in.Name, UrgentDays: in.UrgentDays, WarningDays: in.WarningDays,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCategory(category))
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryDTO
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	list, err := h.uc.ListCategories(c.Context(), restaurantID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CategoryDTO, 0, len(list))
	for _, cat := range list {
		out = append(out, dto.FromCategory(cat))
	}
	return c.JSON(out)
}

// UpdateCategory godoc
// @Summary      Editar categoría (nombre y overrides de umbral)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "campos"
// @Success      200   {object}  dto.CategoryDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	category, err := h.uc.UpdateCategory(c.Context(), restaurantID, c.Params("id"), catalog.CategoryInput{
		Name: in.Name, UrgentDays: in.UrgentDays, WarningDays: in.WarningDays,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromCategory(category))
}

// DeleteCategory godoc
// @Summary      Borrar categoría
// @Description  Vacía la referencia en los lotes que la usaban (referencia
// @Description  débil); los lotes nunca se borran por esta vía.
// @Tags         catalog
// @Security     Bearer
// @Param        id  path  string  true  "ID de la categoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if err := h.uc.DeleteCategory(c.Context(), restaurantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LocationRequest  true  "name"
// @Success      201   {object}  dto.LocationDTO
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.CreateLocation(c.Context(), restaurantID, in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromLocation(location))
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationDTO
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	list, err := h.uc.ListLocations(c.Context(), restaurantID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LocationDTO, 0, len(list))
	for _, l := range list {
		out = append(out, dto.FromLocation(l))
	}
	return c.JSON(out)
}

// UpdateLocation godoc
// @Summary      Renombrar ubicación
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la ubicación"
// @Param        body  body  dto.LocationRequest  true  "name"
// @Success      200   {object}  dto.LocationDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *CatalogHandler) UpdateLocation(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.UpdateLocation(c.Context(), restaurantID, c.Params("id"), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromLocation(location))
}

// DeleteLocation godoc
// @Summary      Borrar ubicación
// @Tags         catalog
// @Security     Bearer
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *CatalogHandler) DeleteLocation(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if err := h.uc.DeleteLocation(c.Context(), restaurantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateThresholds godoc
// @Summary      Actualizar umbrales por defecto del restaurante
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ThresholdsRequest  true  "urgent_days, warning_days"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/thresholds [put]
func (h *CatalogHandler) UpdateThresholds(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	var in dto.ThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateThresholds(c.Context(), restaurantID, in.UrgentDays, in.WarningDays); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "umbrales actualizados"})
}
