package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/katakuxiko/promptforms/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp builds the Fiber app with error handling and the upload limit.
func NewApp(bodyLimit int, log *logging.Logger) *fiber.App {
	if log == nil {
		log = logging.Discard()
	}
	app := fiber.New(fiber.Config{
		AppName:               "promptforms",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})
	app.Use(recover.New())
	return app
}

func RegisterRoutes(app *fiber.App, h *Handler, gatherer prometheus.Gatherer) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Get("/", h.Index)
	app.Get("/forms/:id", h.ShowForm)
	app.Post("/forms/:id", h.SubmitForm)

	app.Post("/api/forms/:id", h.SubmitAPI)
	app.Post("/api/models", h.ListModels)
}
