package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/pkg/jwt"
)

// Locals keys para la identidad del usuario en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token emitido por Supabase y guarda sub, email y role en c.Locals.
func AuthMiddleware(jwtSecret, audience string) fiber.Handler {
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
		id, err := jwt.Parse(jwtSecret, audience, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 si el token no trae role.
//   - 403 si el role no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye role"})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "role '" + role + "' no autorizado"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el id del usuario (claim sub) del contexto.
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetEmail devuelve el email del usuario del contexto.
func GetEmail(c *fiber.Ctx) string { return local(c, LocalEmail) }

// GetRole devuelve el role del usuario del contexto.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

func local(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
