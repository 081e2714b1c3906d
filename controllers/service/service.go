package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"driver-dispatch/logger"
	"driver-dispatch/middleware"
	"driver-dispatch/models/driver"
	"driver-dispatch/services/lifecycle"
	"driver-dispatch/types"
	svc "driver-dispatch/types/service"
	"driver-dispatch/utils"
)

type ServiceController struct {
	engine         *lifecycle.Engine
	loggerInstance *logger.AsyncLogger
}

func NewServiceController(engine *lifecycle.Engine, asyncLogger *logger.AsyncLogger) *ServiceController {
	return &ServiceController{engine: engine, loggerInstance: asyncLogger}
}

// Show returns one service with its tracking projection.
func (h *ServiceController) Show(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return badRequest(c, "invalid service id")
	}

	view, err := h.engine.GetService(c.UserContext(), uint(orderID), drv)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Service retrieved",
		Status:  fiber.StatusOK,
		Data:    view,
	})
}

// Worklist returns the upcoming services grouped by date.
func (h *ServiceController) Worklist(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	grouped, err := h.engine.ServicesGrouped(c.UserContext(), drv)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Services retrieved",
		Status:  fiber.StatusOK,
		Data:    grouped,
	})
}

// WorklistByDate returns the services of one scheduled date (m/d/Y,
// passed URL-encoded).
func (h *ServiceController) WorklistByDate(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	date := c.Query("date")
	if date == "" {
		return badRequest(c, "date is required")
	}

	grouped, err := h.engine.ServicesByDate(c.UserContext(), drv, date)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Services retrieved",
		Status:  fiber.StatusOK,
		Data:    grouped,
	})
}

// Pending returns the oldest recent service still missing its
// operational times, so the app can nag the driver to close it.
func (h *ServiceController) Pending(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	pending, err := h.engine.SearchPending(c.UserContext(), drv)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Pending search completed",
		Status:  fiber.StatusOK,
		Data:    pending,
	})
}

// Acceptance accepts or declines an assignment offer.
func (h *ServiceController) Acceptance(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.AcceptDeclineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.engine.AcceptOrDecline(c.UserContext(), req.OrderID, req.Accept == 1, drv)
	if err != nil {
		return h.fail(c, err)
	}

	msg := "Servicio aceptado"
	if req.Accept != 1 {
		msg = "Servicio rechazado"
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: msg,
		Status:  fiber.StatusOK,
	})
}

// Confirm records the pre-arrival confirmation checkpoint.
func (h *ServiceController) Confirm(c *fiber.Ctx) error {
	return h.checkpoint(c, h.engine.Confirm, "Servicio confirmado")
}

// OnSource records arrival at the pickup point.
func (h *ServiceController) OnSource(c *fiber.Ctx) error {
	return h.checkpoint(c, h.engine.OnSource, "Llegada registrada")
}

// Start records the pickup and the operational start time.
func (h *ServiceController) Start(c *fiber.Ctx) error {
	return h.checkpoint(c, h.engine.StartService, "Servicio iniciado")
}

// Reschedule moves the start time of a not-yet-confirmed service.
func (h *ServiceController) Reschedule(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.engine.RescheduleTime(c.UserContext(), req.OrderID, drv, req.Time)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Hora del servicio actualizada",
		Status:  fiber.StatusOK,
	})
}

// Finish closes a service and triggers the resume notification.
func (h *ServiceController) Finish(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.FinishRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.engine.FinishService(c.UserContext(), req.OrderID, drv,
		req.Observations, req.Image, req.Version)
	if err != nil {
		return h.fail(c, err)
	}

	err = c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Servicio finalizado",
		Status:  fiber.StatusOK,
		Data:    result,
	})
	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	return err
}

// Trace records manually entered operational times for an old service.
func (h *ServiceController) Trace(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.TraceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.engine.TraceService(c.UserContext(), req.OrderID, drv,
		req.Start, req.End, req.Observations, req.Image, req.Version)
	if err != nil {
		return h.fail(c, err)
	}

	err = c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Servicio registrado",
		Status:  fiber.StatusOK,
	})
	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	return err
}

// DeleteTrace removes the tracking record of a service entirely.
func (h *ServiceController) DeleteTrace(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return badRequest(c, "invalid service id")
	}

	if err := h.engine.DeleteTrace(c.UserContext(), uint(orderID), drv); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Registro eliminado",
		Status:  fiber.StatusOK,
	})
}

// PreArrivalPing stores one GPS sample from the way to the pickup. The
// response tells the app whether it should keep reporting.
func (h *ServiceController) PreArrivalPing(c *fiber.Ctx) error {
	return h.ping(c, h.engine.RecordPreArrivalPing)
}

// RidePing stores one GPS sample while the passenger is on board.
func (h *ServiceController) RidePing(c *fiber.Ctx) error {
	return h.ping(c, h.engine.RecordRidePing)
}

// Qualify stores the passenger survey for a service.
func (h *ServiceController) Qualify(c *fiber.Ctx) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.QualifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.engine.Qualify(c.UserContext(), req.OrderID, drv, req.Points, req.Comments)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Encuesta registrada",
		Status:  fiber.StatusOK,
	})
}

type checkpointFn func(ctx context.Context, orderID uint, drv driver.Driver) error

func (h *ServiceController) checkpoint(c *fiber.Ctx, fn checkpointFn, msg string) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.CheckpointRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	if err := fn(c.UserContext(), req.OrderID, drv); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: msg,
		Status:  fiber.StatusOK,
	})
}

type pingFn func(ctx context.Context, orderID uint, drv driver.Driver, point lifecycle.GeoPoint) (bool, error)

func (h *ServiceController) ping(c *fiber.Ctx, fn pingFn) error {
	drv, ok := middleware.CurrentDriver(c)
	if !ok {
		return unauthenticated(c)
	}

	var req svc.PingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Error parsing request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	keepTracking, err := fn(c.UserContext(), req.OrderID, drv, lifecycle.GeoPoint{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Ping registrado",
		Status:  fiber.StatusOK,
		Data:    fiber.Map{"tracking": keepTracking},
	})
}

func (h *ServiceController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusNotFound,
		})
	case errors.Is(err, lifecycle.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(types.ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusConflict,
		})
	case errors.Is(err, lifecycle.ErrEvidenceUpload):
		logger.Error("Evidence upload failed", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusUnprocessableEntity,
		})
	default:
		logger.Error("Service operation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Error interno del servidor",
			Status:  fiber.StatusInternalServerError,
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
		Message: msg,
		Status:  fiber.StatusBadRequest,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
		Message: "Conductor no autorizado",
		Status:  fiber.StatusUnauthorized,
	})
}
