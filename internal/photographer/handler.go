package photographer

import (
	"net/http"

	"photobook/internal/api"
	"photobook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create photographer profile
// @Description  Photographer-only: create the caller's public profile
// @Tags         photographers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body photographer.CreateProfileRequest true "Profile payload"
// @Success      201 {object} photographer.Profile
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /photographers [post]
func (h *Handler) CreateProfile(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	var req CreateProfileRequest
	if !api.BindJSON(c, &req) {
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), actor, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// @Summary      List photographers
// @Tags         photographers
// @Produce      json
// @Param        city  query string false "City filter"
// @Param        page  query int    false "Page"
// @Param        limit query int    false "Page size"
// @Success      200 {object} api.Page[photographer.Profile]
// @Router       /photographers [get]
func (h *Handler) ListProfiles(c *gin.Context) {
	page := api.ParsePage(c)
	profiles, err := h.service.ListProfiles(c.Request.Context(), c.Query("city"), page)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Page[Profile]{Items: profiles, Page: page.Page, Limit: page.Limit})
}

// @Summary      Get photographer
// @Tags         photographers
// @Produce      json
// @Param        id path string true "Photographer ID"
// @Success      200 {object} photographer.Profile
// @Failure      404 {object} api.ErrorResponse
// @Router       /photographers/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary      Create package
// @Description  Photographer-only: add a priced package to the caller's profile
// @Tags         photographers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body photographer.CreatePackageRequest true "Package payload"
// @Success      201 {object} photographer.Package
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /photographers/me/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	actor, ok := auth.MustActor(c)
	if !ok {
		return
	}

	var req CreatePackageRequest
	if !api.BindJSON(c, &req) {
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), actor, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// @Summary      List packages
// @Tags         photographers
// @Produce      json
// @Param        id path string true "Photographer ID"
// @Success      200 {array} photographer.Package
// @Failure      404 {object} api.ErrorResponse
// @Router       /photographers/{id}/packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}
