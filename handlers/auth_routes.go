package handlers

import (
	"match-ladder-system/middleware"
	"match-ladder-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, secret []byte) {
	app.Post("/login", authService.Login)

	// Session check — requires a valid bearer token.
	app.Get("/logged-in", middleware.JWTAuthMiddleware(secret), authService.LoggedIn)
}
