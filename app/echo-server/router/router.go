package router

import (
	"shopsim/internal/middleware"
	"shopsim/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupSessionRoutes(api *echo.Group, handler *rest.SimulationHandler) {
	sessions := api.Group("/sessions")

	sessions.POST("/reset", handler.ResetSession)
	sessions.POST("/step", handler.StepSession)
	sessions.GET("/stats", handler.GetSessionStats)
	sessions.GET("/:id", handler.GetSession)

	sessions.DELETE("/:id", handler.DeleteSession, middleware.AuthMiddleware(), middleware.AdminOnly())
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler) {
	products := api.Group("/products")
	products.GET("", handler.GetAllProducts)
	products.GET("/:asin", handler.GetProductByAsin)

	api.GET("/search", handler.SearchProducts)

	goals := api.Group("/goals", middleware.AuthMiddleware(), middleware.AdminOnly())
	goals.GET("/stats", handler.GetGoalStats)
	goals.GET("/:idx", handler.GetGoalByIndex)
}
