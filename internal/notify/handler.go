package notify

import (
	"net/http"

	"photobook/internal/api"
	"photobook/internal/auth"
	"photobook/internal/clock"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	inbox InboxRepository
	clock clock.Clock
}

func NewHandler(inbox InboxRepository, clk clock.Clock) *Handler {
	return &Handler{inbox: inbox, clock: clk}
}

// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread query bool false "Only unread"
// @Param        page   query int  false "Page"
// @Param        limit  query int  false "Page size"
// @Success      200 {object} api.Page[notify.Notification]
// @Failure      401 {object} api.ErrorResponse
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	page := api.ParsePage(c)
	items, err := h.inbox.ListForUser(c.Request.Context(), actor.UserID, c.Query("unread") == "true", page)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Page[Notification]{Items: items, Page: page.Page, Limit: page.Limit})
}

// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200 {object} api.MessageResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	if err := h.inbox.MarkRead(c.Request.Context(), actor.UserID, c.Param("id"), h.clock.Now()); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Notification marked as read"})
}
