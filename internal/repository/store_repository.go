package repository

import (
	"errors"
	"strings"

	"github.com/zipcart/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 门店数据访问接口
type StoreRepository interface {
	List(filter StoreListFilter) ([]models.Store, int64, error)
	GetByID(id uint) (*models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	GetByOperator(operatorID uint) (*models.Store, error)
	Create(store *models.Store) error
	Update(store *models.Store) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// List 门店列表
func (r *GormStoreRepository) List(filter StoreListFilter) ([]models.Store, int64, error) {
	query := r.db.Model(&models.Store{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		op := likeOperator(r.db)
		query = query.Where("name "+op+" ? OR city "+op+" ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var stores []models.Store
	if err := query.Order("id asc").Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// GetByID 根据 ID 获取门店
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// GetBySlug 根据 slug 获取门店
func (r *GormStoreRepository) GetBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("slug = ?", slug).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// GetByOperator 根据运营用户获取门店
func (r *GormStoreRepository) GetByOperator(operatorID uint) (*models.Store, error) {
	if operatorID == 0 {
		return nil, nil
	}
	var store models.Store
	if err := r.db.Where("operator_id = ?", operatorID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// Create 创建门店
func (r *GormStoreRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// Update 更新门店
func (r *GormStoreRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// Delete 删除门店（软删除）
func (r *GormStoreRepository) Delete(id uint) error {
	return r.db.Delete(&models.Store{}, id).Error
}

// CountBySlug 统计 slug 数量
func (r *GormStoreRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Store{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
