package service

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// StoreService 门店服务
type StoreService struct {
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
}

// NewStoreService 创建门店服务
func NewStoreService(storeRepo repository.StoreRepository, userRepo repository.UserRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo, userRepo: userRepo}
}

var validStoreTypes = map[string]bool{
	constants.StoreTypePartner:          true,
	constants.StoreTypeDark:             true,
	constants.StoreTypeMicroFulfillment: true,
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NearbyStore 附近门店视图
type NearbyStore struct {
	models.Store
	DistanceMiles float64 `json:"distance_miles"`
}

// ListPublic 顾客侧门店列表（仅营业中）
func (s *StoreService) ListPublic(filter repository.StoreListFilter) ([]models.Store, int64, error) {
	filter.OnlyActive = true
	return s.storeRepo.List(filter)
}

// ListNearby 按坐标过滤可配送的门店
// 距离用大圆近似计算，以门店自身的配送半径判定是否可达。
func (s *StoreService) ListNearby(lat, lng float64) ([]NearbyStore, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidInput
	}
	stores, _, err := s.storeRepo.List(repository.StoreListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	result := make([]NearbyStore, 0, len(stores))
	for _, store := range stores {
		distance := haversineMiles(lat, lng, store.Latitude, store.Longitude)
		if distance <= store.DeliveryRadiusMiles {
			result = append(result, NearbyStore{Store: store, DistanceMiles: math.Round(distance*100) / 100})
		}
	}
	return result, nil
}

// GetBySlug 顾客侧门店详情
func (s *StoreService) GetBySlug(slug string) (*models.Store, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidInput
	}
	store, err := s.storeRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.IsActive {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// GetByOperator 运营名下门店
func (s *StoreService) GetByOperator(operatorUserID uint) (*models.Store, error) {
	if operatorUserID == 0 {
		return nil, ErrInvalidInput
	}
	store, err := s.storeRepo.GetByOperator(operatorUserID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// StoreInput 门店写入输入
type StoreInput struct {
	Name                string
	Slug                string
	Type                string
	OperatorID          *uint
	StreetAddress       string
	City                string
	State               string
	ZipCode             string
	Latitude            float64
	Longitude           float64
	DeliveryRadiusMiles float64
	OpensAt             string
	ClosesAt            string
	IsActive            bool
}

// ListForAdmin 管理端门店列表
func (s *StoreService) ListForAdmin(filter repository.StoreListFilter) ([]models.Store, int64, error) {
	return s.storeRepo.List(filter)
}

// Create 管理端创建门店
func (s *StoreService) Create(input StoreInput) (*models.Store, error) {
	if err := s.validateInput(&input, nil); err != nil {
		return nil, err
	}
	now := time.Now()
	store := &models.Store{
		Name:                strings.TrimSpace(input.Name),
		Slug:                input.Slug,
		Type:                input.Type,
		OperatorID:          input.OperatorID,
		StreetAddress:       strings.TrimSpace(input.StreetAddress),
		City:                strings.TrimSpace(input.City),
		State:               strings.TrimSpace(input.State),
		ZipCode:             strings.TrimSpace(input.ZipCode),
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		DeliveryRadiusMiles: input.DeliveryRadiusMiles,
		OpensAt:             input.OpensAt,
		ClosesAt:            input.ClosesAt,
		IsActive:            input.IsActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Update 管理端更新门店
func (s *StoreService) Update(id uint, input StoreInput) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if err := s.validateInput(&input, &id); err != nil {
		return nil, err
	}
	store.Name = strings.TrimSpace(input.Name)
	store.Slug = input.Slug
	store.Type = input.Type
	store.OperatorID = input.OperatorID
	store.StreetAddress = strings.TrimSpace(input.StreetAddress)
	store.City = strings.TrimSpace(input.City)
	store.State = strings.TrimSpace(input.State)
	store.ZipCode = strings.TrimSpace(input.ZipCode)
	store.Latitude = input.Latitude
	store.Longitude = input.Longitude
	store.DeliveryRadiusMiles = input.DeliveryRadiusMiles
	store.OpensAt = input.OpensAt
	store.ClosesAt = input.ClosesAt
	store.IsActive = input.IsActive
	store.UpdatedAt = time.Now()
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Delete 管理端删除门店（软删除）
func (s *StoreService) Delete(id uint) error {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrStoreNotFound
	}
	return s.storeRepo.Delete(id)
}

func (s *StoreService) validateInput(input *StoreInput, excludeID *uint) error {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if strings.TrimSpace(input.Name) == "" || !slugPattern.MatchString(input.Slug) {
		return ErrInvalidInput
	}
	if input.Type == "" {
		input.Type = constants.StoreTypeDark
	}
	if !validStoreTypes[input.Type] {
		return ErrInvalidInput
	}
	if input.DeliveryRadiusMiles <= 0 {
		input.DeliveryRadiusMiles = 3
	}
	if input.OpensAt == "" {
		input.OpensAt = "08:00"
	}
	if input.ClosesAt == "" {
		input.ClosesAt = "22:00"
	}
	count, err := s.storeRepo.CountBySlug(input.Slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	if input.OperatorID != nil {
		operator, err := s.userRepo.GetByID(*input.OperatorID)
		if err != nil {
			return err
		}
		if operator == nil || operator.Role != constants.UserRoleOperator {
			return ErrInvalidInput
		}
	}
	return nil
}

// haversineMiles 两坐标的大圆距离（英里）
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusMiles = 3958.8
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
