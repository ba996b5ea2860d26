package repository

import (
	"errors"

	"github.com/zipcart/internal/models"

	"gorm.io/gorm"
)

// DeliveryPartnerRepository 配送员档案数据访问接口
type DeliveryPartnerRepository interface {
	GetByUserID(userID uint) (*models.DeliveryPartner, error)
	GetByID(id uint) (*models.DeliveryPartner, error)
	Create(partner *models.DeliveryPartner) error
	Update(partner *models.DeliveryPartner) error
	SetAvailability(id uint, available bool) error
	UpdateLocation(id uint, lat, lng float64) error
	IncrementDeliveries(id uint) error
	CountAvailable() (int64, error)
	WithTx(tx *gorm.DB) DeliveryPartnerRepository
}

// GormDeliveryPartnerRepository GORM 实现
type GormDeliveryPartnerRepository struct {
	db *gorm.DB
}

// NewDeliveryPartnerRepository 创建配送员仓库
func NewDeliveryPartnerRepository(db *gorm.DB) *GormDeliveryPartnerRepository {
	return &GormDeliveryPartnerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryPartnerRepository) WithTx(tx *gorm.DB) DeliveryPartnerRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryPartnerRepository{db: tx}
}

// GetByUserID 根据用户获取配送员档案
func (r *GormDeliveryPartnerRepository) GetByUserID(userID uint) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.db.Where("user_id = ?", userID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// GetByID 根据 ID 获取配送员档案
func (r *GormDeliveryPartnerRepository) GetByID(id uint) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// Create 创建配送员档案
func (r *GormDeliveryPartnerRepository) Create(partner *models.DeliveryPartner) error {
	return r.db.Create(partner).Error
}

// Update 更新配送员档案
func (r *GormDeliveryPartnerRepository) Update(partner *models.DeliveryPartner) error {
	return r.db.Save(partner).Error
}

// SetAvailability 设置接单状态
func (r *GormDeliveryPartnerRepository) SetAvailability(id uint, available bool) error {
	return r.db.Model(&models.DeliveryPartner{}).Where("id = ?", id).
		Update("is_available", available).Error
}

// UpdateLocation 更新当前位置
func (r *GormDeliveryPartnerRepository) UpdateLocation(id uint, lat, lng float64) error {
	return r.db.Model(&models.DeliveryPartner{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_lat": lat,
			"current_lng": lng,
		}).Error
}

// IncrementDeliveries 累加配送单数
func (r *GormDeliveryPartnerRepository) IncrementDeliveries(id uint) error {
	return r.db.Model(&models.DeliveryPartner{}).Where("id = ?", id).
		Update("total_deliveries", gorm.Expr("total_deliveries + 1")).Error
}

// CountAvailable 统计可接单配送员
func (r *GormDeliveryPartnerRepository) CountAvailable() (int64, error) {
	var count int64
	if err := r.db.Model(&models.DeliveryPartner{}).Where("is_available = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
