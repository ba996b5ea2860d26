package service

import (
	"time"

	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务
// 购物车是服务端持久化的：同一用户的所有客户端共享一份。
// 约束：同一商品最多一行；任何行 quantity >= 1；全部条目同属一家门店。
type CartService struct {
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	storeRepo     repository.StoreRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository, storeRepo repository.StoreRepository) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		storeRepo:     storeRepo,
	}
}

// CartView 购物车视图
type CartView struct {
	StoreID    uint              `json:"store_id"`
	Store      *models.Store     `json:"store,omitempty"`
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice models.Money      `json:"total_price"`
}

// AddItemInput 加入购物车输入
type AddItemInput struct {
	UserID    uint
	StoreID   uint
	ProductID uint
	Quantity  int
}

// AddItem 加入购物车
// 同一商品已存在时数量叠加；不同门店的商品拒绝加入（单门店购物车）。
// 可售量在这里先校验一次，下单时还会以条件更新再校验。
func (s *CartService) AddItem(input AddItemInput) (*CartView, error) {
	if input.UserID == 0 || input.StoreID == 0 || input.ProductID == 0 || input.Quantity <= 0 {
		return nil, ErrInvalidInput
	}

	existing, err := s.cartRepo.ListByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	for _, line := range existing {
		if line.StoreID != input.StoreID {
			return nil, ErrCartStoreMismatch
		}
	}

	store, err := s.storeRepo.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if !store.IsActive {
		return nil, ErrStoreInactive
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	quantity := input.Quantity
	var current *models.CartItem
	for i := range existing {
		if existing[i].ProductID == input.ProductID {
			current = &existing[i]
			quantity += existing[i].Quantity
			break
		}
	}

	inventory, err := s.inventoryRepo.GetByStoreAndProduct(input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}
	available := 0
	if inventory != nil {
		available = inventory.Available()
	}
	if available < quantity {
		return nil, &InsufficientStockError{Shortages: []StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   available,
		}}}
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:    input.UserID,
		StoreID:   input.StoreID,
		ProductID: input.ProductID,
		Name:      product.Name,
		UnitPrice: product.BasePrice,
		Quantity:  quantity,
		ImageURL:  product.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if current != nil {
		item.CreatedAt = current.CreatedAt
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return nil, err
	}
	return s.GetCart(input.UserID)
}

// UpdateQuantity 更新购物车项数量
// quantity <= 0 等价于删除该行，购物车里永远不会出现非正数量。
func (s *CartService) UpdateQuantity(userID, productID uint, quantity int) (*CartView, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
			return nil, err
		}
		return s.GetCart(userID)
	}

	line, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrProductNotFound
	}

	inventory, err := s.inventoryRepo.GetByStoreAndProduct(line.StoreID, productID)
	if err != nil {
		return nil, err
	}
	available := 0
	if inventory != nil {
		available = inventory.Available()
	}
	if available < quantity {
		return nil, &InsufficientStockError{Shortages: []StockShortage{{
			ProductID:   productID,
			ProductName: line.Name,
			Requested:   quantity,
			Available:   available,
		}}}
	}

	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	if err := s.cartRepo.Upsert(line); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, productID uint) (*CartView, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// ClearCart 清空购物车，空购物车上重复调用不报错
func (s *CartService) ClearCart(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	return s.cartRepo.ClearByUser(userID)
}

// GetCart 获取购物车视图（行 + 汇总）
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Items:      items,
		TotalPrice: models.NewMoneyFromDecimal(decimal.Zero),
	}
	total := decimal.Zero
	for _, line := range items {
		view.TotalItems += line.Quantity
		total = total.Add(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	view.TotalPrice = models.NewMoneyFromDecimal(total)

	if len(items) > 0 {
		view.StoreID = items[0].StoreID
		store, err := s.storeRepo.GetByID(view.StoreID)
		if err != nil {
			return nil, err
		}
		view.Store = store
	}
	return view, nil
}
