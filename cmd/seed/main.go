package main

import (
	"fmt"

	"github.com/zipcart/internal/config"
	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/logger"
	"github.com/zipcart/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示账号（顾客 / 门店运营 / 配送员），密码统一为 Passw0rd!
	users := []models.User{
		{Email: "alice@example.com", FullName: "Alice Chen", Phone: "+1-415-555-0101", Role: constants.UserRoleCustomer, Status: constants.UserStatusActive},
		{Email: "bob@example.com", FullName: "Bob Park", Phone: "+1-415-555-0102", Role: constants.UserRoleCustomer, Status: constants.UserStatusActive},
		{Email: "ops.mission@example.com", FullName: "Maria Lopez", Phone: "+1-415-555-0201", Role: constants.UserRoleOperator, Status: constants.UserStatusActive},
		{Email: "ops.soma@example.com", FullName: "Devon Smith", Phone: "+1-415-555-0202", Role: constants.UserRoleOperator, Status: constants.UserStatusActive},
		{Email: "rider.kai@example.com", FullName: "Kai Tanaka", Phone: "+1-415-555-0301", Role: constants.UserRolePartner, Status: constants.UserStatusActive},
		{Email: "rider.june@example.com", FullName: "June Okafor", Phone: "+1-415-555-0302", Role: constants.UserRolePartner, Status: constants.UserStatusActive},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}
	userIDs := map[string]uint{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err != nil {
			u.PasswordHash = string(hash)
			if err := models.DB.Create(&u).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", u.Email, err)
				continue
			}
			stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
			userIDs[u.Email] = u.ID
		} else {
			stdLog.Printf("User already exists: %s", u.Email)
			userIDs[u.Email] = existing.ID
		}
	}

	// 配送员档案
	for _, email := range []string{"rider.kai@example.com", "rider.june@example.com"} {
		userID := userIDs[email]
		if userID == 0 {
			continue
		}
		var existing models.DeliveryPartner
		if err := models.DB.Where("user_id = ?", userID).First(&existing).Error; err != nil {
			partner := models.DeliveryPartner{
				UserID:      userID,
				VehicleType: "bicycle",
				IsAvailable: true,
			}
			if err := models.DB.Create(&partner).Error; err != nil {
				stdLog.Printf("Failed to create delivery partner for %s: %v", email, err)
			} else {
				stdLog.Printf("Created delivery partner profile: %s", email)
			}
		}
	}

	// 商品分类
	categories := []models.Category{
		{Slug: "produce", Name: "果蔬生鲜", Icon: "/icons/produce.svg", SortOrder: 100, IsActive: true},
		{Slug: "dairy-eggs", Name: "乳品蛋类", Icon: "/icons/dairy.svg", SortOrder: 90, IsActive: true},
		{Slug: "snacks", Name: "零食", Icon: "/icons/snacks.svg", SortOrder: 80, IsActive: true},
		{Slug: "beverages", Name: "饮料", Icon: "/icons/beverages.svg", SortOrder: 70, IsActive: true},
		{Slug: "household", Name: "家居日用", Icon: "/icons/household.svg", SortOrder: 60, IsActive: true},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Slug)
			categoryIDs[cat.Slug] = cat.ID
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
		}
	}

	// 门店（旧金山三个片区）
	missionOpID := userIDs["ops.mission@example.com"]
	somaOpID := userIDs["ops.soma@example.com"]
	stores := []models.Store{
		{
			Name: "ZipCart Mission", Slug: "zipcart-mission", Type: constants.StoreTypeDark,
			OperatorID:    optionalUint(missionOpID),
			StreetAddress: "2500 Mission St", City: "San Francisco", State: "CA", ZipCode: "94110",
			Latitude: 37.7566, Longitude: -122.4188, DeliveryRadiusMiles: 3,
			OpensAt: "07:00", ClosesAt: "23:00", IsActive: true,
		},
		{
			Name: "ZipCart SoMa", Slug: "zipcart-soma", Type: constants.StoreTypeMicroFulfillment,
			OperatorID:    optionalUint(somaOpID),
			StreetAddress: "888 Brannan St", City: "San Francisco", State: "CA", ZipCode: "94103",
			Latitude: 37.7719, Longitude: -122.4036, DeliveryRadiusMiles: 2.5,
			OpensAt: "08:00", ClosesAt: "22:00", IsActive: true,
		},
		{
			Name: "Sunset Corner Market", Slug: "sunset-corner-market", Type: constants.StoreTypePartner,
			StreetAddress: "1901 Irving St", City: "San Francisco", State: "CA", ZipCode: "94122",
			Latitude: 37.7636, Longitude: -122.4781, DeliveryRadiusMiles: 2,
			OpensAt: "09:00", ClosesAt: "21:00", IsActive: true,
		},
	}
	storeIDs := map[string]uint{}
	for _, store := range stores {
		var existing models.Store
		if err := models.DB.Where("slug = ?", store.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&store).Error; err != nil {
				stdLog.Printf("Failed to create store %s: %v", store.Slug, err)
				continue
			}
			stdLog.Printf("Created store: %s", store.Slug)
			storeIDs[store.Slug] = store.ID
		} else {
			stdLog.Printf("Store already exists: %s", store.Slug)
			storeIDs[store.Slug] = existing.ID
		}
	}

	// 共享商品目录
	products := []models.Product{
		{CategoryID: categoryIDs["produce"], Slug: "banana-bunch", Name: "香蕉（一把）", Description: "约 5-7 根，自然熟", BasePrice: money("1.99"), Unit: "bunch", IsTaxable: false, IsActive: true, SortOrder: 100},
		{CategoryID: categoryIDs["produce"], Slug: "avocado-hass", Name: "牛油果", Description: "Hass 品种，单个", BasePrice: money("2.49"), Unit: "each", IsTaxable: false, IsActive: true, SortOrder: 95},
		{CategoryID: categoryIDs["produce"], Slug: "baby-spinach-5oz", Name: "嫩菠菜 5oz", Description: "即食沙拉菜", BasePrice: money("3.99"), Unit: "bag", IsTaxable: false, IsActive: true, SortOrder: 90},
		{CategoryID: categoryIDs["dairy-eggs"], Slug: "whole-milk-gallon", Name: "全脂牛奶 1 加仑", Description: "本地牧场直供", BasePrice: money("4.59"), Unit: "gallon", IsTaxable: false, IsActive: true, SortOrder: 100},
		{CategoryID: categoryIDs["dairy-eggs"], Slug: "eggs-dozen-large", Name: "大号鸡蛋 12 枚", Description: "散养鸡蛋", BasePrice: money("5.29"), Unit: "dozen", IsTaxable: false, IsActive: true, SortOrder: 95},
		{CategoryID: categoryIDs["snacks"], Slug: "tortilla-chips", Name: "玉米脆片", Description: "家庭装 10oz", BasePrice: money("3.49"), Unit: "bag", IsTaxable: true, IsActive: true, SortOrder: 100},
		{CategoryID: categoryIDs["snacks"], Slug: "dark-chocolate-bar", Name: "黑巧克力排块", Description: "72% 可可", BasePrice: money("2.99"), Unit: "each", IsTaxable: true, IsActive: true, SortOrder: 90},
		{CategoryID: categoryIDs["beverages"], Slug: "sparkling-water-12pk", Name: "气泡水 12 罐装", Description: "柠檬味，无糖", BasePrice: money("6.99"), Unit: "pack", IsTaxable: true, IsActive: true, SortOrder: 100},
		{CategoryID: categoryIDs["beverages"], Slug: "cold-brew-coffee", Name: "冷萃咖啡 32oz", Description: "冷藏保存", BasePrice: money("5.49"), Unit: "bottle", IsTaxable: true, IsActive: true, SortOrder: 90},
		{CategoryID: categoryIDs["household"], Slug: "paper-towels-6roll", Name: "厨房纸巾 6 卷", Description: "双层加厚", BasePrice: money("8.99"), Unit: "pack", IsTaxable: true, IsActive: true, SortOrder: 100},
		{CategoryID: categoryIDs["household"], Slug: "dish-soap-16oz", Name: "洗洁精 16oz", Description: "柑橘香型", BasePrice: money("3.79"), Unit: "bottle", IsTaxable: true, IsActive: true, SortOrder: 90},
	}
	productIDs := map[string]uint{}
	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", prod.Slug)
			productIDs[prod.Slug] = prod.ID
		} else {
			stdLog.Printf("Product already exists: %s", prod.Slug)
			productIDs[prod.Slug] = existing.ID
		}
	}

	// 门店库存，留一个低库存商品方便演示补货提醒
	inventoryPlans := []struct {
		StoreSlug   string
		ProductSlug string
		Quantity    int
		Reorder     int
	}{
		{"zipcart-mission", "banana-bunch", 120, 20},
		{"zipcart-mission", "avocado-hass", 80, 15},
		{"zipcart-mission", "baby-spinach-5oz", 40, 10},
		{"zipcart-mission", "whole-milk-gallon", 60, 12},
		{"zipcart-mission", "eggs-dozen-large", 50, 10},
		{"zipcart-mission", "tortilla-chips", 70, 10},
		{"zipcart-mission", "sparkling-water-12pk", 45, 8},
		{"zipcart-mission", "paper-towels-6roll", 30, 6},
		{"zipcart-soma", "banana-bunch", 90, 20},
		{"zipcart-soma", "whole-milk-gallon", 55, 12},
		{"zipcart-soma", "eggs-dozen-large", 4, 10},
		{"zipcart-soma", "dark-chocolate-bar", 100, 15},
		{"zipcart-soma", "cold-brew-coffee", 36, 8},
		{"zipcart-soma", "dish-soap-16oz", 25, 5},
		{"sunset-corner-market", "tortilla-chips", 40, 10},
		{"sunset-corner-market", "sparkling-water-12pk", 30, 8},
		{"sunset-corner-market", "paper-towels-6roll", 18, 6},
	}
	for _, plan := range inventoryPlans {
		storeID := storeIDs[plan.StoreSlug]
		productID := productIDs[plan.ProductSlug]
		if storeID == 0 || productID == 0 {
			continue
		}
		var existing models.Inventory
		if err := models.DB.Where("store_id = ? AND product_id = ?", storeID, productID).First(&existing).Error; err != nil {
			item := models.Inventory{
				StoreID:      storeID,
				ProductID:    productID,
				Quantity:     plan.Quantity,
				ReorderLevel: plan.Reorder,
			}
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create inventory %s/%s: %v", plan.StoreSlug, plan.ProductSlug, err)
			}
		} else {
			existing.Quantity = plan.Quantity
			existing.ReorderLevel = plan.Reorder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update inventory %s/%s: %v", plan.StoreSlug, plan.ProductSlug, err)
			}
		}
	}
	stdLog.Printf("Seeded inventory rows: %d", len(inventoryPlans))

	// 订单策略设置（税率、配送费、待确认超时）
	orderConfig := map[string]interface{}{
		constants.SettingFieldTaxRate:            8.0,
		constants.SettingFieldDeliveryFee:        "2.99",
		constants.SettingFieldPendingTimeoutMins: 15,
	}
	var setting models.Setting
	if err := models.DB.Where("key = ?", constants.SettingKeyOrderConfig).First(&setting).Error; err != nil {
		setting = models.Setting{
			Key:       constants.SettingKeyOrderConfig,
			ValueJSON: models.JSON(orderConfig),
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			stdLog.Printf("Failed to create order config: %v", err)
		} else {
			stdLog.Println("Created order config")
		}
	} else {
		setting.ValueJSON = models.JSON(orderConfig)
		if err := models.DB.Save(&setting).Error; err != nil {
			stdLog.Printf("Failed to update order config: %v", err)
		} else {
			stdLog.Println("Updated order config")
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 6 Users (2 customers, 2 operators, 2 delivery partners), password Passw0rd!")
	fmt.Println("- 3 Stores (Mission / SoMa / Sunset)")
	fmt.Println("- 5 Categories, 11 Products")
	fmt.Printf("- %d Inventory rows (含低库存演示)\n", len(inventoryPlans))
	fmt.Println("- Order config (tax rate, delivery fee, pending timeout)")
}

func money(value string) models.Money {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return models.Money{}
	}
	return models.NewMoneyFromDecimal(d)
}

func optionalUint(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
