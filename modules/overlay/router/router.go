package router

import (
	"slotpoll/modules/overlay/controller"

	"github.com/labstack/echo/v4"
)

// OverlayRouter handles calendar connection and overlay routes
type OverlayRouter struct {
	OverlayController *controller.OverlayController
}

// NewOverlayRouter creates a new router
func NewOverlayRouter(overlayController *controller.OverlayController) *OverlayRouter {
	return &OverlayRouter{
		OverlayController: overlayController,
	}
}

// Setup registers overlay routes
func (r *OverlayRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	calendarRoutes := v1.Group("/calendar/google")
	calendarRoutes.GET("/connect", r.OverlayController.ConnectGoogle)
	calendarRoutes.GET("/callback", r.OverlayController.GoogleCallback)

	v1.GET("/polls/:id/overlay", r.OverlayController.Overlay)
}
