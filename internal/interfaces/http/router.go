package http

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-silo/internal/application/auth"
	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/usecase"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/pkg/jwt"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ItemUC     *usecase.ItemUseCase
	CategoryUC *usecase.CategoryUseCase
	LocationUC *usecase.LocationUseCase
	Ledger     *inventory.LedgerUseCase
	Kardex     *inventory.KardexUseCase
	Reports    *inventory.ReportUseCase
	JWT        jwt.Options

	// Gatherer nil deja /metrics sin publicar.
	Gatherer    prometheus.Gatherer
	MetricsPath string
	ServiceName string
}

// NewApp crea la aplicación Fiber con manejo de errores, recover, logging y CORS.
func NewApp(name string, log *logger.Logger, corsOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log.Component("http")))
	if len(corsOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(corsOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
	return app
}

// MountSwagger sirve la UI de Swagger en /docs si el archivo existe.
func MountSwagger(app *fiber.App, filePath, title string) bool {
	if _, err := os.Stat(filePath); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    title,
	}))
	return true
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Gatherer != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth: login es la única ruta pública
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("/", AuthMiddleware(deps.JWT))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Profile)
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/code/:code", itemHandler.GetByCode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	registerCatalog(protected.Group("/categories"),
		NewCatalogHandler[dto.CategoryResponse, dto.CategoryListResponse](deps.CategoryUC))
	registerCatalog(protected.Group("/locations"),
		NewCatalogHandler[dto.LocationResponse, dto.LocationListResponse](deps.LocationUC))

	for path, kind := range map[string]entity.MovementKind{
		"/receipts":   entity.MovementReceipt,
		"/deliveries": entity.MovementDelivery,
	} {
		group := protected.Group(path)
		h := NewMovementHandler(deps.Ledger, kind)
		group.Post("/", h.Create)
		group.Get("/", h.List)
		group.Get("/:id", h.GetByID)
		group.Put("/:id", h.Update)
		group.Delete("/:id", h.Delete)
	}

	reportHandler := NewReportHandler(deps.Kardex, deps.Reports)
	protected.Get("/kardex", reportHandler.Kardex)
	protected.Get("/kardex/pdf", reportHandler.KardexPDF)
	protected.Get("/reports/period", reportHandler.Period)
	protected.Get("/reports/period.xlsx", reportHandler.PeriodXLSX)
}

func registerCatalog[R, L any](group fiber.Router, h *CatalogHandler[R, L]) {
	group.Post("/", h.Create)
	group.Get("/", h.List)
	group.Get("/:id", h.GetByID)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
