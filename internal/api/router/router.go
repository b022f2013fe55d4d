package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edverse/backend/config"
	"edverse/backend/internal/api/handler"
	"edverse/backend/internal/api/middleware"
	"edverse/backend/pkg/jwt"
	"edverse/backend/pkg/redis"
)

// maxBodyBytes 请求体大小上限（1MB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 教室模块（查询公开，可用性查询无需登录）
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", h.Room.ListRooms)
			rooms.GET("/available", h.Room.ListAvailableRooms)
			rooms.POST("/check-availability", h.Room.CheckAvailability)
			rooms.GET("/:id", h.Room.GetRoom)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("admin"), h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Service 层鉴权）
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
			}

			// 教室管理（管理员）
			roomsAdmin := authorized.Group("/rooms")
			roomsAdmin.Use(middleware.RoleAuth("admin"))
			{
				roomsAdmin.POST("", h.Room.CreateRoom)
				roomsAdmin.PUT("/:id", h.Room.UpdateRoom)
				roomsAdmin.DELETE("/:id", h.Room.DeleteRoom)
			}

			// 预订模块
			bookings := authorized.Group("/bookings")
			{
				bookings.POST("", middleware.RateLimit(rdb, 30, time.Minute), h.Booking.CreateBooking)
				bookings.GET("", middleware.RoleAuth("admin"), h.Booking.ListBookings)
				bookings.GET("/my", h.Booking.GetMyBookings)
				bookings.GET("/:id", h.Booking.GetBooking)
				bookings.PATCH("/:id", h.Booking.UpdateBooking)
				bookings.DELETE("/:id", h.Booking.CancelBooking)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/bookings", middleware.RoleAuth("admin"), h.Export.ExportBookings)
				export.GET("/calendar", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
