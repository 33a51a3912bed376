package routes

import (
	"os"
	"strings"

	"crmpro-backend/config"
	"crmpro-backend/controllers"
	"crmpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, monitor *config.Monitor) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	authController := controllers.NewAuthController(db)
	clientController := controllers.NewClientController(db)
	providerController := controllers.NewProviderController(db)
	productController := controllers.NewProductController(db)
	domainController := controllers.NewDomainController(db)
	categoryController := controllers.NewCategoryController(db)
	brandController := controllers.NewBrandController(db)
	invoiceController := controllers.NewInvoiceController(db)
	orderController := controllers.NewOrderController(db)
	clientLogController := controllers.NewClientLogController(db)
	orderLogController := controllers.NewOrderLogController(db)
	dashboardController := controllers.NewDashboardController(db)
	healthController := controllers.NewHealthController(monitor)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	// Health stays outside the auth wall for load balancers.
	r.GET("/api/health", healthController.Status)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		clients := api.Group("/clients")
		{
			clients.POST("", clientController.Create)
			clients.GET("", clientController.List)
			clients.GET("/:id", clientController.Get)
			clients.PUT("/:id", clientController.Update)
			clients.DELETE("/:id", clientController.Delete)
			clients.GET("/:id/logs", clientController.Logs)
		}

		providers := api.Group("/providers")
		{
			providers.POST("", providerController.Create)
			providers.GET("", providerController.List)
			providers.GET("/:id", providerController.Get)
			providers.PUT("/:id", providerController.Update)
			providers.DELETE("/:id", providerController.Delete)
		}

		products := api.Group("/products")
		{
			products.POST("", productController.Create)
			products.GET("", productController.List)
			products.GET("/:id", productController.Get)
			products.PUT("/:id", productController.Update)
			products.DELETE("/:id", productController.Delete)
		}

		domains := api.Group("/professional-domains")
		{
			domains.POST("", domainController.Create)
			domains.GET("", domainController.List)
			domains.GET("/:id", domainController.Get)
			domains.PUT("/:id", domainController.Update)
			domains.DELETE("/:id", domainController.Delete)
			domains.POST("/bulk-upload", domainController.Uploader.Upload)
		}

		categories := api.Group("/categories")
		{
			categories.POST("", categoryController.Create)
			categories.GET("", categoryController.List)
			categories.GET("/:id", categoryController.Get)
			categories.PUT("/:id", categoryController.Update)
			categories.DELETE("/:id", categoryController.Delete)
			categories.POST("/bulk-upload", categoryController.Uploader.Upload)
		}

		brands := api.Group("/brands")
		{
			brands.POST("", brandController.Create)
			brands.GET("", brandController.List)
			brands.GET("/:id", brandController.Get)
			brands.PUT("/:id", brandController.Update)
			brands.DELETE("/:id", brandController.Delete)
			brands.POST("/bulk-upload", brandController.Uploader.Upload)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceController.Create)
			invoices.GET("", invoiceController.List)
			invoices.GET("/status/:status", invoiceController.ListByStatus)
			invoices.GET("/:id", invoiceController.Get)
			invoices.PUT("/:id", invoiceController.Update)
			invoices.PATCH("/:id/status", invoiceController.UpdateStatus)
			invoices.DELETE("/:id", invoiceController.Delete)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderController.Create)
			orders.GET("", orderController.List)
			orders.GET("/status/:status", orderController.ListByStatus)
			orders.GET("/:id", orderController.Get)
			orders.PUT("/:id", orderController.Update)
			orders.PATCH("/:id/status", orderController.UpdateStatus)
			orders.DELETE("/:id", orderController.Delete)
			orders.GET("/:id/logs", orderController.Logs)
		}

		clientLogs := api.Group("/client-logs")
		{
			clientLogs.POST("", clientLogController.Create)
			clientLogs.GET("", clientLogController.List)
			clientLogs.GET("/today", clientLogController.Today)
			clientLogs.GET("/:id", clientLogController.Get)
			clientLogs.POST("/:id/entries", clientLogController.AddEntry)
			clientLogs.POST("/:id/close", clientLogController.Close)
		}

		orderLogs := api.Group("/order-logs")
		{
			orderLogs.POST("", orderLogController.Create)
			orderLogs.GET("", orderLogController.List)
			orderLogs.GET("/date-range", orderLogController.DateRange)
			orderLogs.GET("/:id", orderLogController.Get)
			orderLogs.POST("/:id/entries", orderLogController.AddEntry)
			orderLogs.POST("/:id/close", orderLogController.Close)
		}

		api.POST("/order-log-entries/batch", orderLogController.AddEntriesBatch)

		api.GET("/dashboard", dashboardController.Overview)
	}

	return r
}
