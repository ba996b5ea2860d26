package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zipcart/internal/authz"
	"github.com/zipcart/internal/cache"
	"github.com/zipcart/internal/config"
	"github.com/zipcart/internal/constants"
	adminhandlers "github.com/zipcart/internal/http/handlers/admin"
	operatorhandlers "github.com/zipcart/internal/http/handlers/operator"
	partnerhandlers "github.com/zipcart/internal/http/handlers/partner"
	publichandlers "github.com/zipcart/internal/http/handlers/public"
	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/logger"
	"github.com/zipcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 按角色分组初始化 Handler
	publicHandler := publichandlers.New(c)
	operatorHandler := operatorhandlers.New(c)
	partnerHandler := partnerhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}
	claimRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:claim", redisPrefix),
		WindowSeconds: cfg.Security.ClaimRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ClaimRateLimit.MaxAttempts,
		Message:       "接单请求过于频繁",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/setting", publicHandler.GetCaptchaSetting)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/stores", publicHandler.GetStores)
			public.GET("/stores/nearby", publicHandler.GetNearbyStores)
			public.GET("/stores/by-slug/:slug", publicHandler.GetStoreBySlug)
			public.GET("/stores/:store_id/products", publicHandler.GetStoreProducts)
			public.GET("/stores/:store_id/products/:slug", publicHandler.GetStoreProduct)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 登录态通用接口（三种角色共用）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)

			user.GET("/notifications", publicHandler.GetNotifications)
			user.GET("/notifications/unread-count", publicHandler.GetUnreadCount)
			user.POST("/notifications/:id/read", publicHandler.MarkNotificationRead)

			// 订单事件流，顾客/运营/配送员按归属鉴权
			user.GET("/orders/:id/events", publicHandler.StreamOrderEvents)
		}

		// 顾客接口
		customer := apiV1.Group("")
		customer.Use(
			UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo),
			RequireUserRole(constants.UserRoleCustomer),
		)
		{
			customer.GET("/cart", publicHandler.GetCart)
			customer.POST("/cart/items", publicHandler.AddCartItem)
			customer.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			customer.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			customer.DELETE("/cart", publicHandler.ClearCart)

			customer.POST("/orders", publicHandler.PlaceOrder)
			customer.GET("/orders", publicHandler.GetOrders)
			customer.GET("/orders/:id", publicHandler.GetOrder)
			customer.GET("/orders/by-number/:order_number", publicHandler.GetOrderByNumber)
			customer.GET("/orders/:id/tracking", publicHandler.GetOrderTracking)
		}

		// 门店运营接口
		operator := apiV1.Group("/operator")
		operator.Use(
			UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo),
			RequireUserRole(constants.UserRoleOperator),
		)
		{
			operator.GET("/store", operatorHandler.GetMyStore)

			operator.GET("/orders", operatorHandler.GetOrderQueue)
			operator.GET("/orders/:id", operatorHandler.GetOrder)
			operator.POST("/orders/:id/confirm", operatorHandler.ConfirmOrder)
			operator.POST("/orders/:id/prepare", operatorHandler.StartPreparing)
			operator.POST("/orders/:id/ready", operatorHandler.MarkReady)
			operator.POST("/orders/:id/cancel", operatorHandler.CancelOrder)

			operator.GET("/inventory", operatorHandler.GetInventory)
			operator.GET("/inventory/low-stock", operatorHandler.GetLowStock)
			operator.PUT("/inventory", operatorHandler.UpsertInventory)
			operator.POST("/inventory/adjust", operatorHandler.AdjustInventory)
			operator.POST("/inventory/restock", operatorHandler.Restock)
		}

		// 配送员接口
		partner := apiV1.Group("/partner")
		partner.Use(
			UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo),
			RequireUserRole(constants.UserRolePartner),
		)
		{
			partner.GET("/profile", partnerHandler.GetProfile)
			partner.PUT("/profile/vehicle", partnerHandler.UpdateVehicleType)
			partner.PUT("/availability", partnerHandler.SetAvailability)
			partner.PUT("/location", partnerHandler.UpdateLocation)

			partner.GET("/orders/available", partnerHandler.GetAvailableOrders)
			partner.POST("/orders/:id/claim", RateLimitMiddleware(redisClient, claimRule, KeyByUserID), partnerHandler.ClaimOrder)
			partner.GET("/orders/active", partnerHandler.GetActiveOrders)
			partner.GET("/orders/history", partnerHandler.GetOrderHistory)
			partner.POST("/orders/:id/delivered", partnerHandler.MarkDelivered)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/status-breakdown", adminHandler.GetDashboardStatusBreakdown)
				authorized.GET("/dashboard/top-products", adminHandler.GetDashboardTopProducts)
				authorized.GET("/dashboard/top-stores", adminHandler.GetDashboardTopStores)

				// 门店管理
				authorized.GET("/stores", adminHandler.GetAdminStores)
				authorized.POST("/stores", adminHandler.CreateStore)
				authorized.PUT("/stores/:id", adminHandler.UpdateStore)
				authorized.DELETE("/stores/:id", adminHandler.DeleteStore)

				// 分类管理
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 订单管理
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PATCH("/users/status", adminHandler.BatchUpdateUserStatus)
				authorized.POST("/users/operators", adminHandler.CreateOperator)

				// 设置管理
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
