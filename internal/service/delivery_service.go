package service

import (
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// DeliveryService 配送员档案服务
type DeliveryService struct {
	partnerRepo repository.DeliveryPartnerRepository
	userRepo    repository.UserRepository
}

// NewDeliveryService 创建配送服务
func NewDeliveryService(partnerRepo repository.DeliveryPartnerRepository, userRepo repository.UserRepository) *DeliveryService {
	return &DeliveryService{partnerRepo: partnerRepo, userRepo: userRepo}
}

var validVehicleTypes = map[string]bool{
	constants.VehicleTypeBicycle:    true,
	constants.VehicleTypeScooter:    true,
	constants.VehicleTypeMotorcycle: true,
	constants.VehicleTypeCar:        true,
}

// GetProfile 获取配送员档案，注册后首次访问时自动建档
func (s *DeliveryService) GetProfile(userID uint) (*models.DeliveryPartner, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	partner, err := s.partnerRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if partner != nil {
		return partner, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != constants.UserRolePartner {
		return nil, ErrPartnerNotFound
	}
	now := time.Now()
	partner = &models.DeliveryPartner{
		UserID:      userID,
		VehicleType: constants.VehicleTypeBicycle,
		IsAvailable: false,
		Rating:      5,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// UpdateVehicleType 更新车辆类型
func (s *DeliveryService) UpdateVehicleType(userID uint, vehicleType string) (*models.DeliveryPartner, error) {
	if !validVehicleTypes[vehicleType] {
		return nil, ErrInvalidInput
	}
	partner, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	partner.VehicleType = vehicleType
	partner.UpdatedAt = time.Now()
	if err := s.partnerRepo.Update(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// SetAvailability 上线/下线接单
func (s *DeliveryService) SetAvailability(userID uint, available bool) (*models.DeliveryPartner, error) {
	partner, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.partnerRepo.SetAvailability(partner.ID, available); err != nil {
		return nil, err
	}
	partner.IsAvailable = available
	return partner, nil
}

// UpdateLocation 上报当前位置
func (s *DeliveryService) UpdateLocation(userID uint, lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidInput
	}
	partner, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	return s.partnerRepo.UpdateLocation(partner.ID, lat, lng)
}
