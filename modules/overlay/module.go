package overlay

import (
	"slotpoll/core/cache"
	"slotpoll/modules/overlay/controller"
	"slotpoll/modules/overlay/repository"
	"slotpoll/modules/overlay/router"
	"slotpoll/modules/overlay/service"
	pollservice "slotpoll/modules/poll/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the overlay module and registers routes
func Init(e *echo.Echo, pollSvc pollservice.PollServiceInterface, stateCache cache.Cache) {
	repo := repository.NewMemoryConnectionRepository()
	svc := service.NewOverlayService(pollSvc, repo, stateCache)
	ctrl := controller.NewOverlayController(svc)
	rtr := router.NewOverlayRouter(ctrl)

	rtr.Setup(e)
}
