package service

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/theapemachine/shopchat/pkg/auth"
	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/stores"
)

const version = "1.0.0"

// Config carries the collaborators the API server routes requests to.
type Config struct {
	Addr     string
	Auth     *auth.Service
	Engine   *chatbot.Engine
	Products stores.ProductStore
	Origins  []string
}

/*
Server is the HTTP face of the shopping assistant: auth, catalog and chat
endpoints over one fiber app. It is safe for concurrent use because every
collaborator it holds is.
*/
type Server struct {
	app    *fiber.App
	config Config
}

// New constructs the server and registers all routes.
func New(config Config) *Server {
	srv := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "Shopchat",
			ServerHeader: "Shopchat-Server",
		}),
		config: config,
	}

	srv.routes()
	return srv
}

func (srv *Server) routes() {
	srv.app.Use(logger.New(logger.Config{
		// Skip logging for the health endpoint to reduce noise
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
	}), healthcheck.New())

	if len(srv.config.Origins) > 0 {
		srv.app.Use(cors.New(cors.Config{AllowOrigins: srv.config.Origins}))
	}

	api := srv.app.Group("/api")
	api.Get("/health", srv.handleHealth)

	api.Post("/auth/register", srv.handleRegister)
	api.Post("/auth/login", srv.handleLogin)
	api.Get("/auth/me", srv.handleCurrentUser, srv.requireAuth)

	// Static product routes have to land before the :id wildcard.
	api.Get("/products/search", srv.handleProductQuery)
	api.Get("/products/categories", srv.handleCategories)
	api.Get("/products/brands", srv.handleBrands)
	api.Get("/products/:id", srv.handleProduct)
	api.Get("/products", srv.handleProducts)

	api.Post("/chat", srv.handleChat, srv.requireAuth)
	api.Get("/chat/history", srv.handleChatHistory, srv.requireAuth)
	api.Get("/chat/sessions", srv.handleChatSessions, srv.requireAuth)
	api.Post("/chat/reset", srv.handleChatReset, srv.requireAuth)
}

// Start blocks serving HTTP until the listener fails or is closed.
func (srv *Server) Start() error {
	return srv.app.Listen(srv.config.Addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown drains in-flight requests and closes the listener.
func (srv *Server) Shutdown() error {
	return srv.app.Shutdown()
}

// App exposes the fiber app for tests.
func (srv *Server) App() *fiber.App {
	return srv.app
}

func (srv *Server) handleHealth(ctx fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

/*
requireAuth gates a route on a valid bearer token and stashes the
authenticated user ID for the handler.
*/
func (srv *Server) requireAuth(ctx fiber.Ctx) error {
	userID, err := srv.config.Auth.Authenticate(ctx.Get("Authorization"))
	if err != nil {
		return fail(ctx, err)
	}

	ctx.Locals("user_id", userID)
	return ctx.Next()
}

func currentUserID(ctx fiber.Ctx) int64 {
	userID, _ := ctx.Locals("user_id").(int64)
	return userID
}

// fail renders any error as the JSON error body the API uses throughout.
func fail(ctx fiber.Ctx, err error) error {
	if apiErr, ok := err.(*errors.APIError); ok {
		return ctx.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
