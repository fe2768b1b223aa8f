package handlers

import (
	"match-ladder-system/middleware"
	"match-ladder-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, queryService *services.QueryService, secret []byte) {
	// 🔓 Public read-only views
	app.Get("/matches", queryService.GetMatches)
	app.Get("/players", queryService.GetPlayers)

	// 🔐 Only the authenticated admin may log results
	app.Post("/log-match", middleware.JWTAuthMiddleware(secret), matchService.LogMatch)
}
