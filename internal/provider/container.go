package provider

import (
	"github.com/zipcart/internal/authz"
	"github.com/zipcart/internal/cache"
	"github.com/zipcart/internal/config"
	"github.com/zipcart/internal/logger"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/queue"
	"github.com/zipcart/internal/realtime"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   *realtime.Publisher

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	StoreRepo        repository.StoreRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	InventoryRepo    repository.InventoryRepository
	CartRepo         repository.CartRepository
	AddressRepo      repository.AddressRepository
	OrderRepo        repository.OrderRepository
	PartnerRepo      repository.DeliveryPartnerRepository
	NotificationRepo repository.NotificationRepository
	SettingRepo      repository.SettingRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	CaptchaService      *service.CaptchaService
	SettingService      *service.SettingService
	StoreService        *service.StoreService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	InventoryService    *service.InventoryService
	CartService         *service.CartService
	OrderService        *service.OrderService
	DeliveryService     *service.DeliveryService
	NotificationService *service.NotificationService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   realtime.NewPublisher(cache.Client(), cfg.Redis.Prefix),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.StoreRepo = repository.NewStoreRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PartnerRepo = repository.NewDeliveryPartnerRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.StoreService = service.NewStoreService(c.StoreRepo, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.InventoryRepo)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo, c.ProductRepo, c.StoreRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.InventoryRepo, c.StoreRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.AddressRepo,
		c.InventoryRepo,
		c.ProductRepo,
		c.StoreRepo,
		c.PartnerRepo,
		c.QueueClient,
		c.Publisher,
		c.SettingService,
		c.Config.Order,
	)
	c.DeliveryService = service.NewDeliveryService(c.PartnerRepo, c.UserRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.OrderRepo, c.StoreRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
