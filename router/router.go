package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/controllers"
	"github.com/dinetap/dinetap/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization",
			"Cache-Control", "X-Requested-With"},
		MaxAge: 12 * time.Hour,
	}))
	r.Use(middlewares.LoggerMiddleware())

	restaurantCtrl := controllers.NewRestaurantController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	billCtrl := controllers.NewBillController(db)
	reportCtrl := controllers.NewReportController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", restaurantCtrl.Register)
		public.POST("/login", restaurantCtrl.Login)
	}

	// Customer surface: no auth, gated by the table code and session id.
	r.GET("/public/:admin_uid/menu", menuCtrl.GetPublicMenu)
	r.POST("/public/join", sessionCtrl.JoinTable)
	r.GET("/public/session/validate", sessionCtrl.ValidateSession)
	r.POST("/public/orders", orderCtrl.PlaceOrder)
	r.GET("/public/orders", orderCtrl.GetSessionOrders)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", restaurantCtrl.GetProfile)
		auth.PATCH("/settings", restaurantCtrl.UpdateSettings)
		auth.POST("/logout", restaurantCtrl.Logout)

		// TABLES
		auth.GET("/tables", tableCtrl.GetAllTables)
		auth.POST("/tables/:table_id/reset", tableCtrl.ResetTable)
		auth.POST("/tables/:table_id/cancel", tableCtrl.CancelTable)
		auth.POST("/tables/:table_id/code", tableCtrl.RegenerateCode)

		// MENU
		auth.GET("/menu", menuCtrl.GetAllMenuItems)
		auth.POST("/menu", menuCtrl.CreateMenuItem)
		auth.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
		auth.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)

		// ORDERS
		auth.GET("/orders", orderCtrl.GetOrders)
		auth.PATCH("/orders/:order_id/items/:item_index", orderCtrl.UpdateItemStatus)
		auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

		// BILLS
		auth.GET("/bills", billCtrl.GetBills)
		auth.GET("/bills/:bill_id", billCtrl.GetBillByID)
		auth.POST("/bills", billCtrl.GenerateBill)
		auth.POST("/bills/:bill_id/finalize", billCtrl.FinalizeBill)

		// REPORTS
		auth.GET("/reports/today", reportCtrl.GetTodaySales)
		auth.GET("/reports/sales", reportCtrl.GetSalesRange)
	}

	// ----------------------------------------------------------------
	//                      SUPERADMIN ROUTES
	// ----------------------------------------------------------------
	super := r.Group("/superadmin")
	super.Use(middlewares.AuthMiddleware(), middlewares.RequireSuperAdmin())
	{
		super.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
		super.DELETE("/restaurants/:admin_uid", restaurantCtrl.DeleteRestaurant)
	}

	// Tenant event stream (token via query parameter).
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/events", controllers.EventsHandler)
	}

	return r
}
