package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"driver-dispatch/constants"
	"driver-dispatch/database"
	"driver-dispatch/models/driver"
	"driver-dispatch/types"
)

// RequireDriver validates the bearer token, loads the active driver it
// names, and stores it under c.Locals("driver") for the handlers.
func RequireDriver() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := driverCodeFromToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		var drv driver.Driver
		err = database.DB.
			Where("code = ? AND status = ?", code, constants.DriverStatusActive).
			First(&drv).Error
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: "Conductor no autorizado",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals("driver", drv)
		return c.Next()
	}
}

// CurrentDriver returns the driver the middleware authenticated.
func CurrentDriver(c *fiber.Ctx) (driver.Driver, bool) {
	drv, ok := c.Locals("driver").(driver.Driver)
	return drv, ok
}

func driverCodeFromToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("Authorization token required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("Invalid token claims")
	}

	code, _ := claims["code"].(string)
	if code == "" {
		return "", errors.New("Token has no driver code")
	}
	return code, nil
}
