package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/authgate/internal/api/http/handler"
	"github.com/dtroode/authgate/internal/api/http/middleware"
	"github.com/dtroode/authgate/internal/api/http/presenter"
	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/model"
)

// Config holds transport settings applied to the fiber app.
type Config struct {
	BodyLimit   int
	CORSOrigins string
}

// Router wires HTTP routes and middleware.
type Router struct {
	authService    handler.AuthService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
	config         Config
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
	config Config,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
		config:         config,
	}
}

// Register builds the fiber app with all routes.
//
// Public routes: POST /register, POST /login.
// Protected routes (bearer token required): GET /welcome.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          presenter.ErrorHandler,
		BodyLimit:             r.config.BodyLimit,
		DisableStartupMessage: true,
	})

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	app.Use(
		logging.Handle,
		recover.New(),
		cors.New(cors.Config{AllowOrigins: r.corsOrigins()}),
	)

	r.registerAuthRoutes(app)
	r.registerProtectedRoutes(app, authenticate)

	return app
}

func (r *Router) corsOrigins() string {
	if r.config.CORSOrigins == "" {
		return "*"
	}
	return r.config.CORSOrigins
}

func (r *Router) registerAuthRoutes(app *fiber.App) {
	authHandler := handler.NewAuth(r.authService, r.logger)
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
}

func (r *Router) registerProtectedRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	welcomeHandler := handler.NewWelcome(r.contextManager, r.logger)
	app.Get("/welcome", authenticate.Handle, welcomeHandler.Get)
}
