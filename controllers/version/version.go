package version

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"driver-dispatch/logger"
	"driver-dispatch/models/appversion"
	"driver-dispatch/types"
)

type VersionController struct {
	db *gorm.DB
}

func NewVersionController(db *gorm.DB) *VersionController {
	return &VersionController{db: db}
}

// Current returns the newest app version row so clients can decide
// whether they must update.
func (h *VersionController) Current(c *fiber.Ctx) error {
	var v appversion.AppVersion
	err := h.db.Order("id DESC").First(&v).Error
	if err != nil {
		logger.Error("Failed to load app version", err)
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
			Message: "Versión no disponible",
			Status:  fiber.StatusNotFound,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Version retrieved",
		Status:  fiber.StatusOK,
		Data:    v,
	})
}
