package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/invoicer/internal/application/billing"
	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WebUC   *billing.WebUseCase
	QueryUC *billing.QueryUseCase
	Log     *logger.Logger
	Now     func() time.Time
}

// AppConfig opciones del servidor.
type AppConfig struct {
	Name        string
	WebRoot     string // formulario estático; vacío = sin estáticos
	SwaggerFile string // vacío o inexistente = sin /docs
}

// NewApp construye la aplicación Fiber con middlewares, API, docs y estáticos.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(deps.Log))
	app.Use(cors.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Invoicer API",
			}))
		} else {
			deps.Log.Warn().Str("file", cfg.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	Router(app, deps)

	if cfg.WebRoot != "" {
		app.Static("/", cfg.WebRoot)
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "OK", Timestamp: now().UTC().Format(time.RFC3339)})
	})

	invoiceHandler := NewInvoiceHandler(deps.WebUC, deps.QueryUC)
	api.Post("/generate-invoice", invoiceHandler.Generate)
	api.Get("/invoices", invoiceHandler.List)
	api.Get("/invoices/:id", invoiceHandler.GetByID)
	api.Get("/invoice-number/preview", invoiceHandler.PreviewNumber)

	// cualquier otra ruta /api/* responde 404 en JSON
	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "route not found", Code: "NOT_FOUND"})
	})
}
