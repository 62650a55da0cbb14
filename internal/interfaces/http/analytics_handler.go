package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dalvarezq/frescura-api/internal/application/analytics"
	"github.com/dalvarezq/frescura-api/internal/application/dto"
)

// AnalyticsHandler maneja las consultas del reporte mensual (protegido).
type AnalyticsHandler struct {
	uc *analytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Monthly godoc
// @Summary      Reporte mensual de merma y pedidos
// @Description  Totales pedidos/merma por producto y unidad, con sugerencia de
// @Description  pedido. Los totales nunca mezclan unidades: con más de una
// @Description  unidad en el mes se expone has_mixed_units y porcentajes por
// @Description  unidad en lugar de uno global.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  true  "Mes en formato YYYY-MM"
// @Success      200  {object}  analytics.MonthlyReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/monthly [get]
func (h *AnalyticsHandler) Monthly(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	month := c.Query("month")
	if month == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro month requerido (YYYY-MM)"})
	}
	report, err := h.uc.GetMonthlyReport(c.Context(), restaurantID, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
