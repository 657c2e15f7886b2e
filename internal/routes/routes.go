package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipperhub/barbershop-platform/internal/activity"
	"github.com/clipperhub/barbershop-platform/internal/config"
	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/handlers"
	infraRepo "github.com/clipperhub/barbershop-platform/internal/infra/repository"
	"github.com/clipperhub/barbershop-platform/internal/middleware"
	"github.com/clipperhub/barbershop-platform/internal/tokenstore"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, revoked *tokenstore.Store) {
	accountRepo := infraRepo.NewAccountGormRepository(db)
	dispatcher := activity.NewDispatcher(activity.NewRecorder(db))

	authHandler := handlers.NewAuthHandler(db, cfg, revoked)
	adminHandler := handlers.NewAdminHandler(db, accountRepo)
	superAdminHandler := handlers.NewSuperAdminHandler(db, accountRepo)
	shopHandler := handlers.NewShopHandler(db, dispatcher)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/token/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/verify-email", authHandler.VerifyEmail)
	}

	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg, db, revoked))
	{
		secured.POST("/auth/logout", authHandler.Logout)
		secured.GET("/auth/profile", authHandler.GetProfile)
		secured.PATCH("/auth/profile", authHandler.UpdateProfile)
		secured.POST("/auth/change-password", authHandler.ChangePassword)
		secured.POST("/auth/resend-verification", authHandler.ResendVerification)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg, db, revoked), middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/activities", adminHandler.Activities)

		admin.GET("/barbershops", adminHandler.ListBarbershops)
		admin.POST("/barbershops", adminHandler.CreateBarbershop)
		admin.GET("/barbershops/:id", adminHandler.GetBarbershop)
		admin.PATCH("/barbershops/:id", adminHandler.UpdateBarbershop)
		admin.DELETE("/barbershops/:id", adminHandler.DeleteBarbershop)
		admin.POST("/barbershops/:id/toggle-status", adminHandler.ToggleStatus)

		admin.GET("/archive/barbershops", adminHandler.ArchivedBarbershops)
		admin.POST("/archive/restore", adminHandler.RestoreBarbershop)

		admin.POST("/transfer/barbershop", adminHandler.TransferBarbershop)
		admin.GET("/transfer/available-admins", adminHandler.AvailableAdmins)
	}

	super := api.Group("/super-admin")
	super.Use(middleware.AuthMiddleware(cfg, db, revoked), middleware.RequireRoles(domain.RoleSuperAdmin))
	{
		super.GET("/dashboard", superAdminHandler.Dashboard)

		super.GET("/admins", superAdminHandler.ListAdmins)
		super.POST("/admins", superAdminHandler.CreateAdmin)
		super.GET("/admins/:id", superAdminHandler.GetAdmin)
		super.PATCH("/admins/:id", superAdminHandler.UpdateAdmin)
		super.DELETE("/admins/:id", superAdminHandler.DeleteAdmin)
		super.POST("/admins/:id/toggle-status", superAdminHandler.ToggleAdminStatus)
		super.GET("/admins/:id/barbershops", superAdminHandler.AdminBarbershops)

		super.GET("/barbershops", superAdminHandler.ListBarbershops)
		super.POST("/barbershops", superAdminHandler.CreateBarbershop)
		super.GET("/barbershops/:id", superAdminHandler.GetBarbershop)
		super.PATCH("/barbershops/:id", superAdminHandler.UpdateBarbershop)
		super.DELETE("/barbershops/:id", superAdminHandler.DeleteBarbershop)
		super.POST("/barbershops/:id/toggle-status", superAdminHandler.ToggleShopStatus)
		super.PATCH("/barbershops/:id/subscription", superAdminHandler.UpdateShopSubscription)

		super.POST("/transfer/barbershop", superAdminHandler.TransferBarbershop)
		super.POST("/transfer/all", superAdminHandler.TransferAllBarbershops)

		super.GET("/archive/admins", superAdminHandler.ArchivedAdmins)
		super.GET("/archive/barbershops", superAdminHandler.ArchivedBarbershops)
		super.POST("/archive/restore", superAdminHandler.RestoreAccount)
	}

	me := api.Group("/me")
	me.Use(middleware.AuthMiddleware(cfg, db, revoked), middleware.RequireRoles(domain.RoleBarbershop))
	{
		me.GET("/profile", shopHandler.GetProfile)
		me.PATCH("/profile", shopHandler.UpdateProfile)
		me.GET("/dashboard", shopHandler.Dashboard)
		me.GET("/activities", shopHandler.Activities)

		me.GET("/appointments", shopHandler.ListAppointments)
		me.POST("/appointments", shopHandler.CreateAppointment)
		me.PATCH("/appointments/:id", shopHandler.UpdateAppointment)
		me.DELETE("/appointments/:id", shopHandler.DeleteAppointment)

		me.GET("/sales", shopHandler.ListSales)
		me.POST("/sales", shopHandler.CreateSale)

		me.GET("/staff", shopHandler.ListStaff)
		me.POST("/staff", shopHandler.CreateStaff)
		me.PATCH("/staff/:id", shopHandler.UpdateStaff)
		me.DELETE("/staff/:id", shopHandler.DeleteStaff)

		me.GET("/customers", shopHandler.ListCustomers)
		me.POST("/customers", shopHandler.CreateCustomer)
		me.PATCH("/customers/:id", shopHandler.UpdateCustomer)
		me.DELETE("/customers/:id", shopHandler.DeleteCustomer)

		me.GET("/inventory", shopHandler.ListInventory)
		me.POST("/inventory", shopHandler.CreateInventoryItem)
		me.PATCH("/inventory/:id", shopHandler.UpdateInventoryItem)
		me.DELETE("/inventory/:id", shopHandler.DeleteInventoryItem)

		me.GET("/services", shopHandler.ListServices)
		me.POST("/services", shopHandler.CreateService)
		me.PATCH("/services/:id", shopHandler.UpdateService)
		me.DELETE("/services/:id", shopHandler.DeleteService)
	}
}
