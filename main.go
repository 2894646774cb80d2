package main

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/config"
	"github.com/Congmoow/Campus-Market/handlers"
	"github.com/Congmoow/Campus-Market/middleware"
	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
	"github.com/Congmoow/Campus-Market/store"
	"github.com/Congmoow/Campus-Market/utils"
)

func main() {
	cfg := config.LoadConfig()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Campus Market",
		ServerHeader: "Campus Market Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(models.ErrorResponse(msg))
		},
	})

	middleware.SetupMiddleware(app)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	registerRoutes(app, cfg, st)
	middleware.SetupNotFoundHandler(app)

	log.Printf("🚀 Server starting on host %s in port %s mode", cfg.Host, cfg.AppPort)

	if err := app.Listen(cfg.Host + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreBackend == "memory" {
		log.Println("Using in-memory store, data will not survive a restart")
		return store.NewMemory(), nil
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}
	return store.NewGorm(db), nil
}

func registerRoutes(app *fiber.App, cfg *config.Config, st store.Store) {
	products := services.NewProductService(st)
	users := services.NewUserService(st, products)
	favorites := services.NewFavoriteService(st, products)
	chats := services.NewChatService(st, products)
	orders := services.NewOrderService(st, chats)

	authHandler := handlers.NewAuthHandler(st)
	userHandler := handlers.NewUserHandler(users, products)
	productHandler := handlers.NewProductHandler(products)
	favoriteHandler := handlers.NewFavoriteHandler(favorites)
	orderHandler := handlers.NewOrderHandler(orders)
	chatHandler := handlers.NewChatHandler(chats)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)

	api.Get("/products/latest", productHandler.GetLatest)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Detail)
	api.Get("/categories", productHandler.GetCategories)

	// Authenticated routes
	authed := api.Group("", utils.AuthMiddleware)

	authed.Get("/auth/me", authHandler.Me)
	authed.Get("/users/me", userHandler.Me)
	authed.Put("/users/me", userHandler.UpdateProfile)
	// "me" routes must come before the ":id" wildcards.
	authed.Get("/users/me/products", userHandler.MyProducts)
	authed.Get("/users/:id", userHandler.GetUser)
	authed.Get("/users/:id/products", userHandler.UserProducts)

	authed.Post("/products", productHandler.Create)
	authed.Put("/products/:id", productHandler.Update)
	authed.Put("/products/:id/status", productHandler.UpdateStatus)
	authed.Delete("/products/:id", productHandler.Delete)

	authed.Get("/favorites", favoriteHandler.List)
	authed.Post("/favorites/:productId", favoriteHandler.Add)
	authed.Delete("/favorites/:productId", favoriteHandler.Remove)

	authed.Post("/orders", orderHandler.Create)
	authed.Get("/orders", orderHandler.MyOrders)
	authed.Get("/orders/:id", orderHandler.Detail)
	authed.Put("/orders/:id/ship", orderHandler.Ship)
	authed.Put("/orders/:id/confirm", orderHandler.Confirm)

	authed.Get("/chats/sessions", chatHandler.ListSessions)
	authed.Put("/chats/sessions/read", chatHandler.MarkAllRead)
	authed.Get("/chats/sessions/:sessionId/messages", chatHandler.ListMessages)
	authed.Post("/chats/sessions", chatHandler.StartChat)
	authed.Post("/chats/sessions/:sessionId/messages", chatHandler.SendMessage)

	authed.Post("/files/upload", uploadHandler.Upload)

	// Admin routes
	admin := api.Group("/system", utils.AuthMiddleware, utils.AdminOnly)
	admin.Post("/notifications", chatHandler.SendSystemNotification)
}
