// handlers/matches.go
package handlers

import (
	"tennis-live-scoring/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService) {
	app.Post("/players", matchService.CreatePlayer)
	app.Get("/players", matchService.SearchPlayers)
	app.Get("/players/:id", matchService.GetPlayer)

	app.Post("/matches", matchService.CreateMatch)
	app.Get("/matches", matchService.ListMatches)
	app.Get("/matches/:id", matchService.GetMatch)
}
