package poll

import (
	"time"

	"slotpoll/core/middleware"
	"slotpoll/modules/poll/controller"
	"slotpoll/modules/poll/repository"
	"slotpoll/modules/poll/router"
	"slotpoll/modules/poll/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the poll module and registers routes. The repository is
// passed in because the storage driver (memory or postgres) is a server-level
// decision. The built service is returned for collaborators (calendar
// overlay, retention sweeper).
func Init(e *echo.Echo, repo repository.EventRepositoryInterface, mw *middleware.Middleware, loc *time.Location, bestLimit int) service.PollServiceInterface {
	svc := service.NewPollService(repo, loc, bestLimit)
	ctrl := controller.NewPollController(svc)
	rtr := router.NewPollRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
