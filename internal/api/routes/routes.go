package routes

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/api/handlers"
	"github.com/princeprakhar/shopfront-api/internal/api/middleware"
	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
)

func SetupRoutes(router *gin.Engine, s *store.Store, cfg *config.Config) error {
	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))

	images, err := services.NewImageStore(cfg)
	if err != nil {
		return fmt.Errorf("image storage: %w", err)
	}
	if images == nil {
		logger.Warn("Image uploads disabled: no image provider configured")
	}

	var mailer services.Mailer
	if emailService := services.NewEmailService(cfg); emailService != nil {
		mailer = emailService
	} else {
		logger.Warn("Email delivery disabled: SMTP_HOST not set")
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Initialize services
	authService := services.NewAuthService(s, tokens)
	if err := authService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	userService := services.NewUserService(s)
	productService := services.NewProductService(s, images)
	categoryService := services.NewCategoryService(s)
	inventoryService := services.NewInventoryService(s, cfg.LowStockThreshold)
	cartService := services.NewCartService(s)
	orderService := services.NewOrderService(s, mailer)
	reviewService := services.NewReviewService(s)
	likeService := services.NewLikeService(s)
	wishlistService := services.NewWishlistService(s)
	couponService := services.NewCouponService(s)
	notificationService := services.NewNotificationService(s)
	helpService := services.NewHelpService(s)
	contactService := services.NewContactService(s, mailer)
	blogService := services.NewBlogService(s)
	adminService := services.NewAdminService(s, cfg.LowStockThreshold)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	likeHandler := handlers.NewLikeHandler(likeService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	couponHandler := handlers.NewCouponHandler(couponService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	helpHandler := handlers.NewHelpHandler(helpService)
	contactHandler := handlers.NewContactHandler(contactService)
	blogHandler := handlers.NewBlogHandler(blogService)
	adminHandler := handlers.NewAdminHandler(adminService)

	authRequired := middleware.AuthMiddleware(tokens)
	adminOnly := middleware.AdminOnly()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running", "timestamp": time.Now()})
	})

	// API routes
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.PUT("/password", authRequired, passwordHandler.ChangePassword)
	}

	users := api.Group("/users", authRequired)
	{
		users.GET("", adminOnly, userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
		users.GET("/:id/activity", adminOnly, userHandler.GetUserActivity)
	}

	products := api.Group("/products")
	{
		products.GET("", productHandler.GetAllProducts)
		products.GET("/search", productHandler.SearchProducts)
		products.GET("/category/:category", productHandler.GetProductsByCategory)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/reviews", reviewHandler.GetProductReviews)
		products.GET("/:id/reviews/check", authRequired, reviewHandler.CheckUserReview)
		products.GET("/:id/likes", likeHandler.GetProductLikes)
		products.GET("/:id/likes/check", authRequired, likeHandler.CheckUserLike)
		products.POST("/likes", authRequired, likeHandler.LikeProduct)
		products.DELETE("/likes/:like_id", authRequired, likeHandler.UnlikeProduct)

		products.POST("", authRequired, adminOnly, productHandler.CreateProduct)
		products.PUT("/bulk-update", authRequired, adminOnly, inventoryHandler.BulkUpdate)
		products.PUT("/:id", authRequired, adminOnly, productHandler.UpdateProduct)
		products.DELETE("/:id", authRequired, adminOnly, productHandler.DeleteProduct)
		products.POST("/:id/image", authRequired, adminOnly, productHandler.UploadImage)
	}

	api.POST("/likes/cleanup", authRequired, adminOnly, likeHandler.CleanupDuplicates)
	api.POST("/reviews", authRequired, reviewHandler.CreateReview)

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.POST("", authRequired, adminOnly, categoryHandler.CreateCategory)
		categories.DELETE("/:id", authRequired, adminOnly, categoryHandler.DeleteCategory)
	}

	cart := api.Group("/cart", authRequired)
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveCartItem)
	}

	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/status/:status", orderHandler.ListOrdersByStatus)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.DELETE("/:id", orderHandler.CancelOrder)
		orders.PUT("/:id/status", adminOnly, orderHandler.UpdateOrderStatus)
	}

	inventory := api.Group("/inventory", authRequired, adminOnly)
	{
		inventory.GET("/low-stock", inventoryHandler.GetLowStock)
		inventory.PUT("/update-stock", inventoryHandler.UpdateStock)
	}

	// Admin reporting
	admin := api.Group("", authRequired, adminOnly)
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/export/products", adminHandler.ExportProducts)
		admin.GET("/export/orders", adminHandler.ExportOrders)
		admin.GET("/analytics/dashboard", adminHandler.GetDashboard)
		admin.GET("/analytics/reports/sales", adminHandler.GetSalesReport)
	}

	wishlist := api.Group("/wishlist", authRequired)
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("", wishlistHandler.AddToWishlist)
		wishlist.DELETE("/:id", wishlistHandler.RemoveFromWishlist)
	}

	coupons := api.Group("/coupons", authRequired)
	{
		coupons.GET("", adminOnly, couponHandler.ListCoupons)
		coupons.POST("", adminOnly, couponHandler.CreateCoupon)
		coupons.POST("/validate", couponHandler.ValidateCoupon)
	}

	notifications := api.Group("/notifications", authRequired)
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/test-create", notificationHandler.CreateTest)
	}

	help := api.Group("/help")
	{
		help.GET("", helpHandler.ListArticles)
		help.GET("/categories", helpHandler.GetCategories)
		help.GET("/:id", helpHandler.GetArticle)
		help.POST("/:id/helpful", middleware.OptionalAuth(tokens), helpHandler.MarkHelpful)
		help.POST("", authRequired, adminOnly, helpHandler.CreateArticle)
		help.PUT("/:id", authRequired, adminOnly, helpHandler.UpdateArticle)
	}

	contact := api.Group("/contact")
	{
		contact.POST("", contactHandler.Submit)
		contact.GET("/messages", authRequired, adminOnly, contactHandler.ListMessages)
		contact.POST("/messages/:id/respond", authRequired, adminOnly, contactHandler.Respond)
	}

	blog := api.Group("/blog/posts")
	{
		blog.GET("", blogHandler.ListPosts)
		blog.GET("/:id", blogHandler.GetPost)
		blog.POST("", authRequired, adminOnly, blogHandler.CreatePost)
		blog.PUT("/:id", authRequired, adminOnly, blogHandler.UpdatePost)
	}

	api.GET("/search/advanced", productHandler.AdvancedSearch)
	api.GET("/recommendations/:product_id", productHandler.GetRecommendations)
	api.GET("/recommendations/user/:user_id", productHandler.GetUserRecommendations)

	api.GET("/system/health", adminHandler.SystemHealth)
	api.GET("/docs", docsHandler(router))

	logger.Info("Routes initialized successfully")
	return nil
}

type routeDoc struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// docsHandler lists every registered route.
func docsHandler(router *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := router.Routes()
		docs := make([]routeDoc, 0, len(routes))
		for _, r := range routes {
			docs = append(docs, routeDoc{Method: r.Method, Path: r.Path})
		}
		sort.Slice(docs, func(i, j int) bool {
			if docs[i].Path != docs[j].Path {
				return docs[i].Path < docs[j].Path
			}
			return docs[i].Method < docs[j].Method
		})
		utils.SendList(c, "API documentation", docs, len(docs))
	}
}
