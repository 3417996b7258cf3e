package router

import (
	"slotpoll/core/middleware"
	"slotpoll/modules/poll/controller"

	"github.com/labstack/echo/v4"
)

// PollRouter handles poll routes
type PollRouter struct {
	PollController *controller.PollController
}

// NewPollRouter creates a new router
func NewPollRouter(pollController *controller.PollController) *PollRouter {
	return &PollRouter{
		PollController: pollController,
	}
}

// Setup registers poll routes. All routes are public: knowing the poll id is
// the only requirement for reading or submitting availability.
func (r *PollRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	pollRoutes := v1.Group("/polls", mw.OptionalIdentity())
	pollRoutes.POST("", r.PollController.CreatePoll)
	pollRoutes.GET("/:id", r.PollController.GetPoll)
	pollRoutes.PUT("/:id/availability", r.PollController.SaveAvailability)
	pollRoutes.GET("/:id/best", r.PollController.BestSlots)
}
