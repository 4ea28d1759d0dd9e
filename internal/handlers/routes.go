package handlers

import "github.com/labstack/echo/v4"

// Handlers groups every route handler the server exposes.
type Handlers struct {
	Restaurant *RestaurantHandlers
	APIKeys    *ApiKeyHandlers
	Menu       *MenuHandlers
	Tables     *TableHandlers
	Inventory  *InventoryHandlers
	Ledger     *LedgerHandlers
	Recipes    *RecipeHandlers
	Orders     *OrderHandlers
	Health     *HealthHandlers
	Jobs       *JobHandlers
	Analytics  *AnalyticsHandlers
	Receipts   *ReceiptHandlers
}

// RegisterRoutes mounts the public, tenant and admin route groups. tenantMW
// must resolve the restaurant from the API key; adminMW guards /api/admin.
func RegisterRoutes(e *echo.Echo, h *Handlers, tenantMW, adminMW []echo.MiddlewareFunc) {
	public := e.Group("/api/public")
	public.GET("/health", h.Health.HealthCheck)
	public.GET("/health/ready", h.Health.ReadinessCheck)
	public.GET("/health/live", h.Health.LivenessCheck)
	public.GET("/info", h.Health.Info)

	admin := e.Group("/api/admin", adminMW...)
	admin.POST("/restaurants", h.Restaurant.Create)
	admin.GET("/restaurants", h.Restaurant.List)
	admin.GET("/restaurants/:id", h.Restaurant.Get)
	admin.DELETE("/restaurants/:id", h.Restaurant.Deactivate)
	admin.POST("/restaurants/:id/api-keys", h.Restaurant.IssueAPIKey)
	admin.GET("/jobs", h.Jobs.ListJobs)
	admin.POST("/jobs/:name/run", h.Jobs.RunJob)
	admin.POST("/alerts/scan", h.Jobs.ScanAlerts)

	api := e.Group("/api", tenantMW...)

	api.GET("/restaurant", h.Restaurant.GetCurrent)
	api.PUT("/restaurant", h.Restaurant.UpdateCurrent)

	api.GET("/api-keys", h.APIKeys.List)
	api.POST("/api-keys", h.APIKeys.Create)
	api.DELETE("/api-keys/:id", h.APIKeys.Deactivate)

	menu := api.Group("/menu")
	menu.GET("/categories", h.Menu.ListCategories)
	menu.POST("/categories", h.Menu.CreateCategory)
	menu.GET("/categories/:id", h.Menu.GetCategory)
	menu.PUT("/categories/:id", h.Menu.UpdateCategory)
	menu.DELETE("/categories/:id", h.Menu.DeleteCategory)
	menu.GET("/items", h.Menu.ListItems)
	menu.POST("/items", h.Menu.CreateItem)
	menu.GET("/items/:id", h.Menu.GetItem)
	menu.PUT("/items/:id", h.Menu.UpdateItem)
	menu.DELETE("/items/:id", h.Menu.DeleteItem)
	menu.POST("/items/:id/image", h.Menu.UploadItemImage)
	menu.GET("/items/:id/image-url", h.Menu.ItemImageURL)
	menu.GET("/items/:id/recipe", h.Recipes.GetByMenuItem)

	tables := api.Group("/tables")
	tables.GET("", h.Tables.List)
	tables.POST("", h.Tables.Create)
	tables.GET("/available", h.Tables.Available)
	tables.GET("/number/:number", h.Tables.GetByNumber)
	tables.GET("/:id", h.Tables.Get)
	tables.PUT("/:id", h.Tables.Update)
	tables.PATCH("/:id/status", h.Tables.UpdateStatus)
	tables.DELETE("/:id", h.Tables.Delete)

	inventory := api.Group("/inventory")
	inventory.GET("/items", h.Inventory.List)
	inventory.POST("/items", h.Inventory.Create)
	inventory.GET("/items/code/:code", h.Inventory.GetByCode)
	inventory.GET("/items/:id", h.Inventory.Get)
	inventory.PUT("/items/:id", h.Inventory.Update)
	inventory.DELETE("/items/:id", h.Inventory.Delete)
	inventory.GET("/items/:id/transactions", h.Ledger.ItemTransactions)
	inventory.GET("/low-stock", h.Inventory.LowStock)
	inventory.GET("/out-of-stock", h.Inventory.OutOfStock)
	inventory.GET("/expiring", h.Inventory.Expiring)
	inventory.GET("/alerts", h.Jobs.InventoryAlerts)
	inventory.GET("/enums", h.Inventory.Enums)

	inventory.POST("/stock-in", h.Ledger.StockIn)
	inventory.POST("/stock-out", h.Ledger.StockOut)
	inventory.POST("/adjust", h.Ledger.Adjust)
	inventory.POST("/transfer", h.Ledger.Transfer)
	inventory.GET("/transactions", h.Ledger.ListTransactions)
	inventory.GET("/transactions/pending", h.Ledger.PendingApprovals)
	inventory.GET("/transactions/number/:number", h.Ledger.GetTransactionByNumber)
	inventory.GET("/transactions/:id", h.Ledger.GetTransaction)
	inventory.POST("/transactions/:id/approve", h.Ledger.Approve)

	recipes := api.Group("/recipes")
	recipes.GET("", h.Recipes.List)
	recipes.POST("", h.Recipes.Create)
	recipes.POST("/track-inventory", h.Recipes.Consume)
	recipes.GET("/:id", h.Recipes.Get)
	recipes.PUT("/:id", h.Recipes.Update)
	recipes.DELETE("/:id", h.Recipes.Delete)
	recipes.POST("/:id/ingredients", h.Recipes.AddIngredient)
	recipes.DELETE("/:id/ingredients/:ingredient_id", h.Recipes.RemoveIngredient)
	recipes.POST("/:id/instructions", h.Recipes.AddInstruction)
	recipes.DELETE("/:id/instructions/:instruction_id", h.Recipes.RemoveInstruction)

	orders := api.Group("/orders")
	orders.GET("", h.Orders.ListOrders)
	orders.POST("", h.Orders.CreateOrder)
	orders.GET("/number/:number", h.Orders.GetOrderByNumber)
	orders.GET("/:id", h.Orders.GetOrder)
	orders.PATCH("/:id/status", h.Orders.UpdateStatus)
	orders.PATCH("/:id/payment", h.Orders.UpdatePayment)
	orders.PATCH("/:id/items/:item_id/status", h.Orders.UpdateItemStatus)
	orders.POST("/:id/cancel", h.Orders.CancelOrder)
	orders.GET("/:id/receipt", h.Receipts.Receipt)

	api.GET("/analytics/sales", h.Analytics.SalesSummary)
}
