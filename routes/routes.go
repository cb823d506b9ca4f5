package routes

import (
	"github.com/gofiber/fiber/v2"
	"intake-backend/handler"
)

func Setup(app *fiber.App, d handler.Deps) {
	auth := handler.NewAuthHandler(d)
	requests := handler.NewRequestHandler(d)

	app.Post("/signup", auth.Signup)
	app.Post("/login", auth.Login)
	app.Post("/profile", auth.Profile)

	app.Post("/wagers", requests.CreateWager)
	app.Post("/agris", requests.CreateAgri)
	app.Get("/getwageruser", requests.ListWagers)
	app.Get("/getagriuser", requests.ListAgris)
}
