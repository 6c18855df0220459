// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/account"
	authsvc "github.com/your-org/storefront/internal/domain/auth"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/auth"
)

// Dependencies are the services the API routes are served by
type Dependencies struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Sessions *session.Manager
	Tokens   *auth.TokenManager
	Catalog  *catalog.Client
	Carts    *session.CartService
	Auth     *authsvc.Service
	Checkout *checkout.Service
	Accounts *account.Service
}

// SetupRoutes sets up all API routes. Every route runs inside a session.
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	rg.Use(middleware.Session(deps.Config, deps.Sessions, deps.Tokens, deps.Logger))

	SetupCatalogRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupAuthRoutes(rg, deps)
	SetupLanguageRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupAccountRoutes(rg, deps)
}

// SetupCatalogRoutes sets up product and package feed routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Config, deps.Sessions, deps.Catalog, deps.Logger)

	catalogRoutes := rg.Group("/catalog/:kind")
	{
		catalogRoutes.GET("", catalogHandler.List)
		catalogRoutes.POST("/more", catalogHandler.LoadMore)
		catalogRoutes.POST("/retry", catalogHandler.Retry)
		catalogRoutes.GET("/:id", catalogHandler.Get)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Logger)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:kind/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:kind/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/refresh", cartHandler.RefreshCart)
	}
}

// SetupAuthRoutes sets up phone sign-in routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Tokens, deps.Logger)

	authRoutes := rg.Group("/auth")
	{
		authRoutes.POST("/otp", authHandler.RequestOTP)
		authRoutes.POST("/otp/verify", authHandler.VerifyOTP)
		authRoutes.GET("/me", authHandler.Me)

		protected := authRoutes.Group("")
		protected.Use(middleware.RequireCustomer())
		{
			protected.POST("/logout", authHandler.Logout)
		}
	}
}

// SetupLanguageRoutes sets up the language switch
func SetupLanguageRoutes(rg *gin.RouterGroup, deps Dependencies) {
	languageHandler := handlers.NewLanguageHandler(deps.Config, deps.Sessions, deps.Logger)

	rg.GET("/language", languageHandler.GetLanguage)
	rg.PUT("/language", languageHandler.SetLanguage)
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Logger)

	checkoutRoutes := rg.Group("/checkout")
	{
		checkoutRoutes.GET("/summary", checkoutHandler.GetSummary)

		protected := checkoutRoutes.Group("")
		protected.Use(middleware.RequireCustomer())
		{
			protected.POST("", checkoutHandler.PlaceOrder)
		}
	}
}

// SetupAccountRoutes sets up the signed-in customer's account routes
func SetupAccountRoutes(rg *gin.RouterGroup, deps Dependencies) {
	accountHandler := handlers.NewAccountHandler(deps.Accounts, deps.Logger)

	accountRoutes := rg.Group("/account")
	accountRoutes.Use(middleware.RequireCustomer())
	{
		accountRoutes.GET("/profile", accountHandler.GetProfile)
		accountRoutes.PUT("/profile", accountHandler.UpdateProfile)
		accountRoutes.GET("/orders", accountHandler.ListOrders)
		accountRoutes.GET("/orders/:id", accountHandler.GetOrder)
		accountRoutes.GET("/orders/:id/receipt", accountHandler.DownloadReceipt)
	}
}
