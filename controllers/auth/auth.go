package auth

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"driver-dispatch/constants"
	"driver-dispatch/logger"
	"driver-dispatch/models/driver"
	"driver-dispatch/types"
	authTypes "driver-dispatch/types/auth"
	"driver-dispatch/utils"
)

type AuthController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{db: db, loggerInstance: asyncLogger}
}

// Login authenticates a driver and returns a bearer token plus the
// driver profile.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing login request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Error parsing request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	var drv driver.Driver
	err := h.db.
		Where("username = ? AND status = ?", req.Username, constants.DriverStatusActive).
		First(&drv).Error
	if err != nil {
		logger.Warning("Login failed for username " + req.Username)
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Usuario o contraseña incorrectos",
			Status:  fiber.StatusUnauthorized,
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(drv.Password), []byte(req.Password)) != nil {
		logger.Warning("Invalid password for driver " + drv.Code)
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Usuario o contraseña incorrectos",
			Status:  fiber.StatusUnauthorized,
		})
	}

	token, err := issueToken(drv)
	if err != nil {
		logger.Error("Failed to sign token for driver "+drv.Code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "No fue posible iniciar sesión",
			Status:  fiber.StatusInternalServerError,
		})
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("Driver " + drv.Code + " logged in")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   token,
		Data:    drv,
	})
}

func issueToken(drv driver.Driver) (string, error) {
	claims := jwt.MapClaims{
		"code": drv.Code,
		"name": drv.FullName(),
		"exp":  time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
