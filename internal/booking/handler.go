package booking

import (
	"net/http"
	"time"

	"photobook/internal/api"
	"photobook/internal/apperr"
	"photobook/internal/auth"
	"photobook/internal/clock"

	"github.com/gin-gonic/gin"
)

const defaultStatsWindow = 30 * 24 * time.Hour

type Handler struct {
	service Service
	clock   clock.Clock
}

func NewHandler(service Service, clk clock.Clock) *Handler {
	return &Handler{
		service: service,
		clock:   clk,
	}
}

// @Summary      Create booking
// @Description  Client-only: request a session with a photographer
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateBookingRequest true "Booking payload"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} api.Page[booking.Booking]
// @Failure      401 {object} api.ErrorResponse
// @Router       /bookings/me [get]
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	page := api.ParsePage(c)
	items, err := h.service.ListMine(c.Request.Context(), actor, page)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Page[Booking]{Items: items, Page: page.Page, Limit: page.Limit})
}

// @Summary      List received bookings
// @Description  Bookings made with the caller's photographer profile
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} api.Page[booking.Booking]
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/received [get]
func (h *Handler) ListReceived(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	page := api.ParsePage(c)
	items, err := h.service.ListReceived(c.Request.Context(), actor, page)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Page[Booking]{Items: items, Page: page.Page, Limit: page.Limit})
}

// @Summary      Get booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} booking.Booking
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Change booking state
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Param        request body booking.TransitionRequest true "Target state"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id}/transitions [post]
func (h *Handler) Transition(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Transition(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Booking statistics
// @Description  Admin-only: bookings per day or per state
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        group_by query string false "day or state" default(day)
// @Param        from     query string false "RFC3339 start (default: 30 days ago)"
// @Param        to       query string false "RFC3339 end (default: now)"
// @Success      200 {object} booking.StatsResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/stats/bookings [get]
func (h *Handler) Stats(c *gin.Context) {
	q := StatsQuery{GroupBy: c.DefaultQuery("group_by", GroupByDay)}

	q.To = h.clock.Now()
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.RespondError(c, apperr.Validation("to must be an RFC3339 timestamp"))
			return
		}
		q.To = t.UTC()
	}

	q.From = q.To.Add(-defaultStatsWindow)
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.RespondError(c, apperr.Validation("from must be an RFC3339 timestamp"))
			return
		}
		q.From = t.UTC()
	}

	stats, err := h.service.Stats(c.Request.Context(), q)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
