package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Bill      *BillHandler
	Template  *TemplateHandler
	Balance   *BalanceHandler
	Analytics *AnalyticsHandler
	Profile   *ProfileHandler
	Category  *CategoryHandler
	Reminder  *ReminderHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes. profileScope resolves the active
// profile for the routes that need one; apiMiddleware wraps all of /api/v1.
func RegisterRoutes(e *echo.Echo, profileScope echo.MiddlewareFunc, h Handlers, apiMiddleware ...echo.MiddlewareFunc) {
	// API version 1
	api := e.Group("/api/v1", apiMiddleware...)

	// Profile management is global
	profiles := api.Group("/profiles")
	profiles.GET("", h.Profile.ListProfiles)
	profiles.POST("", h.Profile.CreateProfile)
	profiles.PUT("/:id", h.Profile.RenameProfile)
	profiles.DELETE("/:id", h.Profile.DeleteProfile)

	// Categories are shared by all profiles
	categories := api.Group("/categories")
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.AddCategory)
	categories.POST("/reset", h.Category.ResetCategories)
	categories.DELETE("/:name", h.Category.RemoveCategory)

	// Bill routes (profile scoped)
	bills := api.Group("/bills", profileScope)
	bills.POST("", h.Bill.CreateBill)
	bills.GET("", h.Bill.GetBills)
	bills.GET("/month/:year/:month", h.Bill.GetBillsByMonth)
	bills.GET("/:id", h.Bill.GetBill)
	bills.PUT("/:id", h.Bill.UpdateBill)
	bills.PATCH("/:id/paid", h.Bill.SetPaid)
	bills.DELETE("/:id", h.Bill.DeleteBill)

	// Template routes (profile scoped)
	templates := api.Group("/templates", profileScope)
	templates.POST("", h.Template.SaveTemplate)
	templates.GET("", h.Template.ListTemplates)
	templates.GET("/:id", h.Template.GetTemplate)
	templates.DELETE("/:id", h.Template.DeleteTemplate)
	templates.POST("/:id/apply/:year", h.Template.ApplyToYear)
	templates.POST("/:id/apply/:year/:month", h.Template.ApplyToMonth)

	// Balance routes (profile scoped)
	balance := api.Group("/balance", profileScope)
	balance.POST("/coverage", h.Balance.ComputeCoverage)
	balance.GET("/:year/:month", h.Balance.GetMonthBalance)
	balance.GET("/:year/:month/credit", h.Balance.GetCredit)
	balance.PUT("/:year/:month/credit", h.Balance.SetCredit)

	// Analytics routes (profile scoped)
	analytics := api.Group("/analytics", profileScope)
	analytics.GET("/monthly/:year/:month", h.Analytics.GetMonthlySpending)
	analytics.GET("/categories/:year/:month", h.Analytics.GetSpendingByCategory)
	analytics.GET("/trend", h.Analytics.GetTrend)
	analytics.GET("/report", h.Analytics.GetReport)
	analytics.GET("/overview", h.Analytics.GetOverview)

	api.GET("/reminders", h.Reminder.GetReminders, profileScope)

	// WebSocket resolves its profile from the query string itself
	e.GET("/ws", h.WebSocket.HandleWS)
}
