package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appcontainer "github.com/jhoicas/container-tracker/internal/application/container"
	"github.com/jhoicas/container-tracker/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ContainerUC *appcontainer.UseCase
	PushDates   appcontainer.DatePushStrategy
	JWTSecret   string
	AppName     string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(jwt.RoleOperator)
	read := RequireRole(jwt.RoleOperator, jwt.RoleViewer)

	h := NewContainerHandler(deps.ContainerUC, deps.PushDates, deps.Log)
	containers := api.Group("/containers")
	containers.Get("/", read, h.List)
	containers.Post("/", write, h.Create)
	containers.Delete("/", write, h.Delete)
	containers.Post("/transitions/:event", write, h.Transition)
	containers.Get("/:id", read, h.GetByID)
	containers.Patch("/:id", write, h.Update)
	containers.Post("/:id/copy", write, h.Copy)
	containers.Get("/:id/dates", read, h.DerivedDates)
	containers.Post("/:id/incoming", write, h.LinkIncoming)
	containers.Post("/:id/partial", write, h.Partial)
}
