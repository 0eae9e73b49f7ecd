// handlers/live_scoring.go
package handlers

import (
	"tennis-live-scoring/middleware"
	"tennis-live-scoring/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLiveScoringRoutes(app *fiber.App, liveService *services.LiveScoringService, scorerHeader string) {
	live := app.Group("/live-scoring", middleware.ScorerContext(scorerHeader))

	// Sessions
	live.Post("/sessions", liveService.CreateSession)
	live.Get("/sessions", liveService.ListSessions)
	live.Get("/sessions/:id", liveService.GetSession)
	live.Patch("/sessions/:id/status", liveService.UpdateSessionStatus)
	live.Get("/matches/:matchId/session", liveService.GetMatchSession)

	// Point log and timeline
	live.Post("/sessions/:id/points", liveService.RecordPoint)
	live.Get("/sessions/:id/points", liveService.ListPoints)
	live.Get("/sessions/:id/events", liveService.ListEvents)
	live.Get("/sessions/:id/stream", liveService.StreamSession)

	live.Post("/sessions/:id/replay", liveService.ReplaySession)
}
