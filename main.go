package main

import (
	"slotpoll/core/logger"
	"slotpoll/core/server"
)

// @title SlotPoll API
// @version 1.0
// @description Group availability polling backend: polls over a date range and
// @description time window, per-participant slot selections, aggregated heatmap
// @description and best-time ranking, with an optional calendar busy overlay.

// @host localhost:7070
// @BasePath /api/v1

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
