package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "github.com/chynybekuuludastan/content_mapper/docs" // registers the API description with swag
)

// SetupSwagger serves the API reference under /swagger
func SetupSwagger(app *fiber.App) {
	app.Get("/swagger/*", swagger.New(swagger.Config{
		Title:        "Content Mapper API",
		DeepLinking:  true,
		DocExpansion: "list",
	}))

	app.Get("/swagger", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html")
	})
}
