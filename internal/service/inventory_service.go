package service

import (
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// InventoryService 库存台账服务
// 预占/释放/消耗由订单流程驱动；这里承载运营侧的盘点与补货操作。
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	storeRepo     repository.StoreRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository, storeRepo repository.StoreRepository) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		storeRepo:     storeRepo,
	}
}

// InventoryDetail 库存视图
type InventoryDetail struct {
	ProductID   uint            `json:"product_id"`
	StoreID     uint            `json:"store_id"`
	Quantity    int             `json:"quantity"`
	Reserved    int             `json:"reserved_quantity"`
	Available   int             `json:"available"`
	Reorder     int             `json:"reorder_level"`
	StockStatus string          `json:"stock_status"`
	Product     *models.Product `json:"product,omitempty"`
}

func stockStatusOf(item models.Inventory) string {
	available := item.Available()
	switch {
	case available <= 0:
		return constants.StockStatusOutOfStock
	case available <= item.ReorderLevel:
		return constants.StockStatusLowStock
	default:
		return constants.StockStatusInStock
	}
}

func (s *InventoryService) buildDetails(items []models.Inventory) ([]InventoryDetail, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uint]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	details := make([]InventoryDetail, 0, len(items))
	for _, item := range items {
		detail := InventoryDetail{
			ProductID:   item.ProductID,
			StoreID:     item.StoreID,
			Quantity:    item.Quantity,
			Reserved:    item.ReservedQuantity,
			Available:   item.Available(),
			Reorder:     item.ReorderLevel,
			StockStatus: stockStatusOf(item),
		}
		if p, ok := productMap[item.ProductID]; ok {
			product := p
			detail.Product = &product
		}
		details = append(details, detail)
	}
	return details, nil
}

// ListForStore 门店全部库存
func (s *InventoryService) ListForStore(storeID uint) ([]InventoryDetail, error) {
	if storeID == 0 {
		return nil, ErrInvalidInput
	}
	items, err := s.inventoryRepo.ListByStore(storeID)
	if err != nil {
		return nil, err
	}
	return s.buildDetails(items)
}

// ListLowStock 可售量触及补货阈值的库存
func (s *InventoryService) ListLowStock(storeID uint) ([]InventoryDetail, error) {
	if storeID == 0 {
		return nil, ErrInvalidInput
	}
	items, err := s.inventoryRepo.ListLowStock(storeID)
	if err != nil {
		return nil, err
	}
	return s.buildDetails(items)
}

// UpsertItem 创建或覆盖库存行（商品首次进入门店货架）
func (s *InventoryService) UpsertItem(storeID, productID uint, quantity, reorderLevel int) (*InventoryDetail, error) {
	if storeID == 0 || productID == 0 || quantity < 0 || reorderLevel < 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	now := time.Now()
	if err := s.inventoryRepo.Upsert(&models.Inventory{
		ProductID:    productID,
		StoreID:      storeID,
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, err
	}
	return s.getDetail(storeID, productID)
}

// AdjustQuantity 调整在库数量（进货为正、盘亏为负）
// 不允许把可售量调成负数，违反守卫时返回冲突。
func (s *InventoryService) AdjustQuantity(storeID, productID uint, delta int) (*InventoryDetail, error) {
	if storeID == 0 || productID == 0 || delta == 0 {
		return nil, ErrInvalidInput
	}
	item, err := s.inventoryRepo.GetByStoreAndProduct(storeID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrInventoryNotFound
	}
	affected, err := s.inventoryRepo.AdjustQuantity(storeID, productID, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInventoryConflict
	}
	return s.getDetail(storeID, productID)
}

// Restock 补货
func (s *InventoryService) Restock(storeID, productID uint, quantity int) (*InventoryDetail, error) {
	if quantity <= 0 {
		return nil, ErrInvalidInput
	}
	return s.AdjustQuantity(storeID, productID, quantity)
}

func (s *InventoryService) getDetail(storeID, productID uint) (*InventoryDetail, error) {
	item, err := s.inventoryRepo.GetByStoreAndProduct(storeID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrInventoryNotFound
	}
	details, err := s.buildDetails([]models.Inventory{*item})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}
