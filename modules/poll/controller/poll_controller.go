package controller

import (
	"strconv"

	"slotpoll/core/controller"
	"slotpoll/core/errors"
	"slotpoll/core/middleware"
	"slotpoll/modules/poll/dto"
	"slotpoll/modules/poll/service"

	"github.com/labstack/echo/v4"
)

// PollController handles availability-poll HTTP requests
type PollController struct {
	controller.BaseController
	PollService service.PollServiceInterface
}

// NewPollController creates a new controller
func NewPollController(svc service.PollServiceInterface) *PollController {
	return &PollController{
		BaseController: controller.NewBaseController(),
		PollService:    svc,
	}
}

// CreatePoll handles POST /polls
// @Summary Create availability poll
// @Description Create a poll over a date range and daily time window
// @Tags Poll
// @Accept json
// @Produce json
// @Param request body dto.CreatePollRequest true "Poll definition"
// @Success 200 {object} dto.PollResponse
// @Failure 400 {object} errors.AppError
// @Router /polls [post]
func (c *PollController) CreatePoll(ctx echo.Context) error {
	var req dto.CreatePollRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.PollService.CreatePoll(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Poll created successfully")
}

// GetPoll handles GET /polls/:id
// @Summary Get poll with aggregated grid
// @Description Returns dates, time labels, the aggregate/who/heat grids and participants
// @Tags Poll
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} dto.PollResponse
// @Failure 404 {object} errors.AppError
// @Router /polls/{id} [get]
func (c *PollController) GetPoll(ctx echo.Context) error {
	result, appErr := c.PollService.GetPoll(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	// An authenticated identity only pre-fills the name field client-side;
	// it grants nothing.
	result.SuggestedName = middleware.IdentityName(ctx)

	return c.SuccessResponse(ctx, result, "Success")
}

// SaveAvailability handles PUT /polls/:id/availability
// @Summary Save a participant's availability
// @Description Replaces the participant's entire slot selection (last write wins)
// @Tags Poll
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param request body dto.SaveAvailabilityRequest true "Participant name and slot indices"
// @Success 200 {object} dto.PollResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /polls/{id}/availability [put]
func (c *PollController) SaveAvailability(ctx echo.Context) error {
	var req dto.SaveAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	// Fall back to the identity display name when the body omits one.
	if req.ParticipantName == "" {
		req.ParticipantName = middleware.IdentityName(ctx)
	}

	result, appErr := c.PollService.SaveAvailability(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability saved successfully")
}

// BestSlots handles GET /polls/:id/best
// @Summary Ranked best times
// @Description Top-N slots by participant count; empty when nobody has responded
// @Tags Poll
// @Produce json
// @Param id path string true "Poll ID"
// @Param limit query int false "Maximum entries (default 5)"
// @Success 200 {object} dto.BestSlotsResponse
// @Failure 404 {object} errors.AppError
// @Router /polls/{id}/best [get]
func (c *PollController) BestSlots(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "limit must be an integer")
		}
		limit = parsed
	}

	result, appErr := c.PollService.BestSlots(ctx.Request().Context(), ctx.Param("id"), limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
