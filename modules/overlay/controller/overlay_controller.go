package controller

import (
	"slotpoll/core/controller"
	"slotpoll/core/errors"
	"slotpoll/modules/overlay/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OverlayController handles calendar connection and overlay HTTP requests
type OverlayController struct {
	controller.BaseController
	OverlayService service.OverlayService
}

// NewOverlayController creates a new controller
func NewOverlayController(svc service.OverlayService) *OverlayController {
	return &OverlayController{
		BaseController: controller.NewBaseController(),
		OverlayService: svc,
	}
}

// ConnectGoogle handles GET /calendar/google/connect
// @Summary Start Google Calendar connect flow
// @Tags Overlay
// @Produce json
// @Success 200 {object} dto.ConnectResponse
// @Router /calendar/google/connect [get]
func (c *OverlayController) ConnectGoogle(ctx echo.Context) error {
	result, appErr := c.OverlayService.GoogleAuthURL(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Redirect the user to auth_url")
}

// GoogleCallback handles GET /calendar/google/callback
// @Summary Complete Google Calendar connect flow
// @Tags Overlay
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state token"
// @Success 200 {object} dto.ConnectionResponse
// @Failure 401 {object} errors.AppError
// @Router /calendar/google/callback [get]
func (c *OverlayController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "code and state are required")
	}

	result, appErr := c.OverlayService.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar connected")
}

// Overlay handles GET /polls/:id/overlay
// @Summary Busy-slot overlay for a poll
// @Description Slots of the poll that collide with the connected calendar's busy blocks
// @Tags Overlay
// @Produce json
// @Param id path string true "Poll ID"
// @Param connection_id query string true "Calendar connection ID"
// @Success 200 {object} dto.OverlayResponse
// @Failure 404 {object} errors.AppError
// @Router /polls/{id}/overlay [get]
func (c *OverlayController) Overlay(ctx echo.Context) error {
	connectionID, err := uuid.Parse(ctx.QueryParam("connection_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "connection_id must be a valid UUID")
	}

	result, appErr := c.OverlayService.Overlay(ctx.Request().Context(), ctx.Param("id"), connectionID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
