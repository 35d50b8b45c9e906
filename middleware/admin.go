package middleware

import (
	"log"
	"time"

	"coin-economy-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SignAdminToken issues the back-office session token.
func SignAdminToken(adminID, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  adminID,
		"role": role,
		"typ":  "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// AdminAuth guards /api/admin routes. Sets admin_id and admin_role locals.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := parseToken(raw)
		if err != nil {
			log.Printf("❌ [ADMIN_AUTH] Rejected token on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}
		if typ, _ := claims["typ"].(string); typ != "admin" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		adminID, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if adminID == "" || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("admin_id", adminID)
		c.Locals("admin_role", role)
		return c.Next()
	}
}

// SuperadminOnly sits behind AdminAuth on the destructive routes.
func SuperadminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if AdminRole(c) != models.RoleSuperadmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "superadmin access required",
			})
		}
		return c.Next()
	}
}

// AdminID reads the authenticated admin id set by AdminAuth.
func AdminID(c *fiber.Ctx) string {
	id, _ := c.Locals("admin_id").(string)
	return id
}

// AdminRole reads the authenticated admin role set by AdminAuth.
func AdminRole(c *fiber.Ctx) string {
	role, _ := c.Locals("admin_role").(string)
	return role
}
