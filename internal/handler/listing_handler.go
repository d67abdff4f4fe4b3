package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "casaads/internal/errors"
	"casaads/internal/middleware"
	"casaads/internal/model"
	"casaads/internal/service"
)

// ListingHandler handles the public and authenticated listing endpoints.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// List godoc
// @Summary List ads, paginated
// @Tags ads
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} service.ListingPage
// @Router /ads [get]
func (h *ListingHandler) List(c echo.Context) error {
	page := queryInt64(c, "page", 0)
	limit := queryInt64(c, "limit", 0)

	result, err := h.listingService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Fetch a single ad
// @Tags ads
// @Produce json
// @Param id path string true "Ad id"
// @Success 200 {object} model.Listing
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ads/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	listing, err := h.listingService.Get(c.Request().Context(), id, viewerKey(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Create godoc
// @Summary Publish a new ad
// @Tags ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.Listing true "Ad payload"
// @Success 201 {object} model.Listing
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /ads [post]
func (h *ListingHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.Unauthorized("no token provided")
	}

	var listing model.Listing
	if err := c.Bind(&listing); err != nil {
		return err
	}

	created, err := h.listingService.Create(c.Request().Context(), &listing, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Partially update an ad
// @Tags ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ad id"
// @Param request body model.ListingUpdate true "Fields to change"
// @Success 200 {object} model.Listing
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ads/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var update model.ListingUpdate
	if err := c.Bind(&update); err != nil {
		return err
	}

	listing, err := h.listingService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Delete godoc
// @Summary Delete an ad
// @Tags ads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ad id"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ads/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	listing, err := h.listingService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ad deleted", "ad": listing})
}

// pathID parses the :id path parameter into a native id, failing before any
// validation or store lookup runs.
func pathID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID("id")
	}
	return id, nil
}

// viewerKey identifies the viewer for view dedupe: the user id when one is
// attached, otherwise the client IP.
func viewerKey(c echo.Context) string {
	if user, ok := middleware.CurrentUser(c); ok {
		return user.ID.Hex()
	}
	return c.RealIP()
}

func queryInt64(c echo.Context, name string, def int64) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}
