package handler

import (
	"errors"
	"net/http"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/middleware"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/OmarEmad62/ATC-01111780082/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc      service.EventService
	bookings service.BookingService
}

func NewEventHandler(svc service.EventService, bookings service.BookingService) *EventHandler {
	return &EventHandler{svc: svc, bookings: bookings}
}

func (h *EventHandler) RegisterRoutes(g *echo.Group, authMw echo.MiddlewareFunc) {
	g.GET("", h.ListEvents)
	g.GET("/:id", h.GetEvent)

	admin := []echo.MiddlewareFunc{authMw, middleware.AdminOnly}
	g.POST("", h.CreateEvent, admin...)
	g.PUT("/:id", h.UpdateEvent, admin...)
	g.DELETE("/:id", h.DeleteEvent, admin...)
	g.GET("/stats", h.Stats, admin...)
	g.GET("/:id/status", h.GetInventoryStatus, admin...)
	g.GET("/:id/bookings", h.ListBookings, admin...)
	g.GET("/:id/activity", h.ListActivity, admin...)
}

func eventError(err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrInvalidEvent), errors.Is(err, service.ErrCapacityBelowBooked):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return serverError(err)
	}
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.svc.CreateEvent(c.Request().Context(), req, user.UserID)
	if err != nil {
		return eventError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := idParam(c, "Event not found")
	if err != nil {
		return err
	}

	event, err := h.svc.GetEvent(c.Request().Context(), id)
	if err != nil {
		return eventError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	filter := repository.EventFilter{Category: models.Category(c.QueryParam("category"))}

	events, err := h.svc.ListEvents(c.Request().Context(), filter)
	if err != nil {
		return eventError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := idParam(c, "Event not found")
	if err != nil {
		return err
	}

	var req dto.UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.svc.UpdateEvent(c.Request().Context(), id, req)
	if err != nil {
		return eventError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := idParam(c, "Event not found")
	if err != nil {
		return err
	}

	removed, err := h.svc.DeleteEvent(c.Request().Context(), id)
	if err != nil {
		return eventError(err)
	}

	return c.JSON(http.StatusOK, dto.DeleteEventResponse{
		Message:         "Event and related bookings deleted successfully",
		DeletedBookings: removed,
	})
}

func (h *EventHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *EventHandler) GetInventoryStatus(c echo.Context) error {
	id, err := idParam(c, "Event not found")
	if err != nil {
		return err
	}

	status, err := h.svc.InventoryStatus(c.Request().Context(), id)
	if err != nil {
		return eventError(err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *EventHandler) ListBookings(c echo.Context) error {
	id, err := idParam(c, "Event not found")
	if err != nil {
		return err
	}

	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		if !bs.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown booking status")
		}
		status = &bs
	}

	bookings, err := h.bookings.ListEventBookings(c.Request().Context(), id, status)
	if err != nil {
		return eventError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *EventHandler) ListActivity(c echo.Context) error {
	id, err := idParam(c, "Event not found")
	if err != nil {
		return err
	}

	logs, err := h.svc.ListActivity(c.Request().Context(), id)
	if err != nil {
		return serverError(err)
	}
	return c.JSON(http.StatusOK, dto.ToActivityResponses(logs))
}
