package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dalvarezq/frescura-api/internal/application/dto"
	"github.com/dalvarezq/frescura-api/pkg/jwt"
)

// LocalRestaurantID key del tenant en Fiber Locals.
const LocalRestaurantID = "restaurant_id"

// TenantMiddleware valida el Bearer Token y extrae el RestaurantID a c.Locals.
// La autenticación (PIN, sesiones) vive fuera de este servicio: aquí el token
// solo resuelve el tenant de cada request.
func TenantMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		restaurantID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || restaurantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalRestaurantID, restaurantID)
		return c.Next()
	}
}

// GetRestaurantID devuelve el tenant del contexto (después del middleware).
func GetRestaurantID(c *fiber.Ctx) string {
	v := c.Locals(LocalRestaurantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
