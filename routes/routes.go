package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/liviabarbosax/dashboard-financeiro/controllers"
	"github.com/liviabarbosax/dashboard-financeiro/middleware"
)

func InitializeRoutes(router *gin.Engine, h *controllers.Handler) {
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	router.POST("/registration", h.Register)

	app := router.Group("/")
	app.Use(middleware.AuthMiddleware())
	{
		app.GET("/pedidos", h.GetOrders)
		app.POST("/pedidos", h.CreateOrder)
		app.PUT("/pedidos/:id", h.UpdateOrder)
		app.DELETE("/pedidos/:id", h.DeleteOrder)

		app.GET("/dashboard", h.GetDashboard)
		app.GET("/resumo", h.GetSummary)
		app.GET("/fechamento", h.GetClosing)
		app.POST("/fechamento/abrir-mes", h.OpenNewMonth)
		app.GET("/relatorio", h.GetReport)

		app.GET("/config", h.GetSettings)
		app.PUT("/config", h.UpdateSettings)
		app.GET("/tema", h.GetTheme)
		app.PUT("/tema", h.SetTheme)

		app.POST("/sync", h.ForceSync)
		app.GET("/sync/status", h.SyncStatus)
	}
}
