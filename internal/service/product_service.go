package service

import (
	"strings"
	"time"

	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// ProductService 商品目录服务
// 目录全门店共享，可售性按门店库存计算后随商品一起返回。
type ProductService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	inventoryRepo repository.InventoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, inventoryRepo repository.InventoryRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		inventoryRepo: inventoryRepo,
	}
}

// StoreProduct 带门店可售性的商品视图
type StoreProduct struct {
	models.Product
	Available int  `json:"available"`
	InStock   bool `json:"in_stock"`
}

// ListForStore 门店商品列表：目录行叠加该门店的可售量
func (s *ProductService) ListForStore(storeID uint, filter repository.ProductListFilter) ([]StoreProduct, int64, error) {
	if storeID == 0 {
		return nil, 0, ErrInvalidInput
	}
	filter.OnlyActive = true
	filter.WithCategory = true
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	inventories, err := s.inventoryRepo.ListByStoreAndProducts(storeID, ids)
	if err != nil {
		return nil, 0, err
	}
	availableMap := make(map[uint]int, len(inventories))
	for _, item := range inventories {
		availableMap[item.ProductID] = item.Available()
	}

	result := make([]StoreProduct, 0, len(products))
	for _, p := range products {
		available := availableMap[p.ID]
		if available < 0 {
			available = 0
		}
		result = append(result, StoreProduct{
			Product:   p,
			Available: available,
			InStock:   available > 0,
		})
	}
	return result, total, nil
}

// GetBySlugForStore 门店商品详情
func (s *ProductService) GetBySlugForStore(storeID uint, slug string) (*StoreProduct, error) {
	slug = strings.TrimSpace(slug)
	if storeID == 0 || slug == "" {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	inventory, err := s.inventoryRepo.GetByStoreAndProduct(storeID, product.ID)
	if err != nil {
		return nil, err
	}
	available := 0
	if inventory != nil {
		available = inventory.Available()
	}
	if available < 0 {
		available = 0
	}
	return &StoreProduct{Product: *product, Available: available, InStock: available > 0}, nil
}

// ListForAdmin 管理端商品列表
func (s *ProductService) ListForAdmin(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithCategory = true
	return s.productRepo.List(filter)
}

// GetByID 商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput 商品写入输入
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	BasePrice   models.Money
	Unit        string
	ImageURL    string
	Barcode     string
	IsTaxable   bool
	IsActive    bool
	SortOrder   int
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := s.validateInput(&input, nil); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        input.Slug,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		BasePrice:   input.BasePrice,
		Unit:        input.Unit,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Barcode:     strings.TrimSpace(input.Barcode),
		IsTaxable:   input.IsTaxable,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.validateInput(&input, &id); err != nil {
		return nil, err
	}
	product.CategoryID = input.CategoryID
	product.Slug = input.Slug
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.BasePrice = input.BasePrice
	product.Unit = input.Unit
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.Barcode = strings.TrimSpace(input.Barcode)
	product.IsTaxable = input.IsTaxable
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（软删除）
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

func (s *ProductService) validateInput(input *ProductInput, excludeID *uint) error {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if strings.TrimSpace(input.Name) == "" || !slugPattern.MatchString(input.Slug) {
		return ErrInvalidInput
	}
	if input.BasePrice.Decimal.IsNegative() {
		return ErrInvalidInput
	}
	if input.Unit == "" {
		input.Unit = "each"
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.productRepo.CountBySlug(input.Slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}
