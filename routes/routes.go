package routes

import (
	"blackmarket-backend/firebase"
	"blackmarket-backend/handlers"
	"blackmarket-backend/middleware"
	"blackmarket-backend/services"
	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes registers the API. storage may be nil when no bucket is
// configured; image uploads are then refused.
func SetupRoutes(r *gin.Engine, db *gorm.DB, storage firebase.StorageClient, verifier *utils.TokenVerifier) {
	// Initialize handlers
	categoryHandler := &handlers.CategoryHandler{Categories: services.NewCategoryService(db)}
	productHandler := &handlers.ProductHandler{
		Products: services.NewProductService(db),
		Images:   services.NewProductImageService(db),
		Storage:  storage,
	}
	userHandler := &handlers.UserHandler{Users: services.NewUserService(db)}

	auth := middleware.AuthMiddleware(verifier)

	r.GET("/", handlers.Welcome)
	r.GET("/health", handlers.Health)

	api := r.Group("/api")

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/tree", categoryHandler.GetCategoryTree)
		categories.GET("/slug/:slug", categoryHandler.GetCategoryBySlug)
		categories.GET("/:id", categoryHandler.GetCategory)

		categories.POST("", auth, categoryHandler.CreateCategory)
		categories.PUT("/:id", auth, categoryHandler.UpdateCategory)
		categories.DELETE("/:id", auth, categoryHandler.DeleteCategory)
	}

	products := api.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/images", productHandler.GetProductImages)

		products.POST("", auth, productHandler.CreateProduct)
		products.PUT("/:id", auth, productHandler.UpdateProduct)
		products.DELETE("/:id", auth, productHandler.DeleteProduct)

		// Image management
		products.POST("/images", auth, productHandler.CreateProductImage)
		products.PUT("/images/:image_id", auth, productHandler.UpdateProductImage)
		products.DELETE("/images/:image_id", auth, productHandler.DeleteProductImage)
		products.POST("/:id/images/upload", auth, productHandler.UploadProductImage)
	}

	users := api.Group("/users")
	users.Use(auth)
	{
		users.GET("", userHandler.GetUsers)
		users.POST("", userHandler.CreateUser)
		users.POST("/sync", userHandler.SyncUser)
		users.GET("/me", userHandler.GetCurrentUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	api.GET("/carts", handlers.NotImplemented("Carts"))
	api.GET("/wishlists", handlers.NotImplemented("Wishlists"))
	api.GET("/orders", handlers.NotImplemented("Orders"))
	api.GET("/reviews", handlers.NotImplemented("Reviews"))
}
