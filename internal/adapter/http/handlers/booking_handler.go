package handlers

import (
	"log"
	"net/http"

	"bookinghub/internal/adapter/http/dto/request"
	"bookinghub/internal/adapter/http/dto/response"
	"bookinghub/internal/adapter/http/middleware"
	"bookinghub/internal/usecase"
	"bookinghub/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidBookingPayload    = pkg.NewDomainErrorSimple("VALIDATION", "Invalid booking payload", http.StatusBadRequest)
	errInvalidTransitionPayload = pkg.NewDomainErrorSimple("VALIDATION", "Invalid transition payload", http.StatusBadRequest)
	errUnknownTargetState       = pkg.NewDomainErrorSimple("VALIDATION", "Unknown target state", http.StatusBadRequest)
)

// BookingHandler exposes the booking lifecycle over HTTP. Every route runs
// behind middleware.Auth.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

// CreateBooking godoc
// @Summary      Request a booking
// @Tags         bookings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      request.CreateBookingRequest  true  "Booking request"
// @Success      201   {object}  response.BookingResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      403   {object}  pkg.HTTPError
// @Router       /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	var payload request.CreateBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidBookingPayload)
		return
	}

	booking, err := h.usecase.Create(c.Request.Context(), actor, payload.ToInput())
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusCreated, response.FromBooking(booking))
}

// GetBooking godoc
// @Summary      Get a booking
// @Tags         bookings
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.BookingResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	booking, err := h.usecase.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBooking(booking))
}

// ListBookings godoc
// @Summary      List bookings
// @Description  Customers and providers see their own bookings. Admins filter by customer_id or provider_id.
// @Tags         bookings
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query     string  false  "Customer filter (admin)"
// @Param        provider_id  query     string  false  "Provider filter (admin)"
// @Success      200          {array}   response.BookingResponse
// @Failure      400          {object}  pkg.HTTPError
// @Router       /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	var query request.ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWith(c, errInvalidBookingPayload)
		return
	}

	bookings, err := h.usecase.List(c.Request.Context(), actor, query.ToFilter())
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBookings(bookings))
}

// TransitionBooking godoc
// @Summary      Move a booking to another state
// @Description  expected_version must be the version last read. A 409 means the booking changed; reload and retry.
// @Tags         bookings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Booking ID"
// @Param        body  body      request.TransitionRequest  true  "Target state"
// @Success      200   {object}  response.BookingResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      403   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Failure      422   {object}  pkg.HTTPError
// @Failure      503   {object}  pkg.HTTPError
// @Router       /bookings/{id}/transitions [post]
func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	var payload request.TransitionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidTransitionPayload)
		return
	}
	target, ok := payload.ResolveTargetState()
	if !ok {
		abortWith(c, errUnknownTargetState)
		return
	}

	booking, err := h.usecase.Transition(c.Request.Context(), c.Param("id"), actor, target, *payload.ExpectedVersion)
	if err != nil {
		appErr := mapUseCaseError(err)
		log.Printf("[booking][handler] transition rejected booking_id=%s target=%s code=%s", c.Param("id"), target, appErr.Code)
		abortWith(c, appErr)
		return
	}

	c.JSON(http.StatusOK, response.FromBooking(booking))
}
