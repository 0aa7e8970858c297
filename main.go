package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gas-complaint-server/appstate"
	"gas-complaint-server/config"
	"gas-complaint-server/jobs"
	"gas-complaint-server/middleware"
	"gas-complaint-server/models"
	"gas-complaint-server/routes"
	"gas-complaint-server/services"
	"gas-complaint-server/store"
	ws "gas-complaint-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()
	cfg := config.AppConfig

	// Select and open the persistence backend (Postgres or local files)
	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	// Load the application state
	state := appstate.New()
	defaults := models.DefaultSmsSettings(cfg.SMS.APIKey, cfg.SMS.LineNumber)
	defaults.IsEnabled = cfg.SMS.Enabled
	if err := state.Load(st, defaults); err != nil {
		log.Fatal("Failed to load application state:", err)
	}

	if err := seedUsers(state, st); err != nil {
		log.Fatal("Failed to seed initial users:", err)
	}

	// WebSocket hub for dashboard events
	hub := ws.NewHub()
	go hub.Run()

	// Services
	smsService := services.NewSmsService(state, st, cfg)
	complaintService := services.NewComplaintService(state, st, smsService, hub)
	directoryService := services.NewDirectoryService(state, st)
	uploadService, err := services.NewUploadService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize upload service:", err)
	}

	// Set Gin mode
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Gas Complaint Server is running",
			"backend": st.Backend(),
			"time":    time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes, directoryService)

		// WebSocket event stream (token via query parameter)
		wsRoutes := api.Group("")
		wsRoutes.Use(middleware.WebSocketAuthMiddleware(state))
		routes.RegisterWebSocketRoutes(wsRoutes, hub)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(state))
		{
			protected.GET("/auth/me", routes.GetCurrentUser)

			complaintRoutes := protected.Group("/complaints")
			routes.RegisterComplaintRoutes(complaintRoutes, complaintService)

			routes.RegisterProfileRoutes(protected, directoryService)
			routes.RegisterAttachmentRoutes(protected, uploadService)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				adminComplaints := admin.Group("/complaints")
				routes.RegisterComplaintAdminRoutes(adminComplaints, complaintService)

				engineerRoutes := admin.Group("/engineers")
				routes.RegisterEngineerRoutes(engineerRoutes, directoryService)

				smsRoutes := admin.Group("/sms-settings")
				routes.RegisterSmsSettingsRoutes(smsRoutes, smsService)
			}
		}
	}

	// Background job watching stale investigations
	retentionJob := jobs.NewRetentionJob(state, 72*time.Hour)
	retentionJob.Start()
	defer retentionJob.Stop()

	log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
