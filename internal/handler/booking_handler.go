package handler

import (
	"errors"
	"net/http"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/middleware"
	"github.com/OmarEmad62/ATC-01111780082/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc    service.BookingService
	passes service.PassService
}

func NewBookingHandler(svc service.BookingService, passes service.PassService) *BookingHandler {
	return &BookingHandler{svc: svc, passes: passes}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group, authMw echo.MiddlewareFunc) {
	g.GET("/my-bookings", h.MyBookings, authMw)
	g.POST("", h.CreateBooking, authMw)
	g.DELETE("/:id", h.CancelBooking, authMw)
	g.GET("/:id/pass", h.GetPass, authMw)
	g.POST("/pass/verify", h.VerifyPass, authMw, middleware.AdminOnly)
}

// bookingError maps service errors to HTTP errors.
func bookingError(err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
	case errors.Is(err, service.ErrInsufficientTickets):
		return echo.NewHTTPError(http.StatusBadRequest, "Not enough tickets available")
	case errors.Is(err, service.ErrAlreadyBooked):
		return echo.NewHTTPError(http.StatusBadRequest, "You have already booked this event")
	case errors.Is(err, service.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusBadRequest, "Booking is already cancelled")
	case errors.Is(err, service.ErrBookingNotActive):
		return echo.NewHTTPError(http.StatusBadRequest, "Booking is not confirmed")
	case errors.Is(err, service.ErrInvalidPass):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid booking pass")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to access this booking")
	default:
		return serverError(err)
	}
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}

	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), eventID, user.UserID)
	if err != nil {
		return bookingError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	bookingID, err := idParam(c, "Booking not found")
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), bookingID, user.UserID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "Not authorized to cancel this booking")
		}
		return bookingError(err)
	}

	return c.JSON(http.StatusOK, dto.CancelBookingResponse{
		Message: "Booking cancelled successfully",
		Booking: dto.ToBookingResponse(booking),
	})
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}

	bookings, err := h.svc.ListUserBookings(c.Request().Context(), user.UserID)
	if err != nil {
		return serverError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) GetPass(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	bookingID, err := idParam(c, "Booking not found")
	if err != nil {
		return err
	}

	png, err := h.passes.Generate(c.Request().Context(), bookingID, user.UserID)
	if err != nil {
		return bookingError(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *BookingHandler) VerifyPass(c echo.Context) error {
	var req dto.VerifyPassRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.passes.Verify(c.Request().Context(), req.Payload)
	if err != nil {
		return bookingError(err)
	}

	return c.JSON(http.StatusOK, dto.PassVerificationResponse{
		Valid:   true,
		Booking: dto.ToBookingResponse(booking),
	})
}
