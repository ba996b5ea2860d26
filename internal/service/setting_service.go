package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"

	"github.com/shopspring/decimal"
)

// SettingService 运行时设置服务
// 订单策略（税率、配送费、待确认超时）允许在不重启的情况下
// 通过设置表覆盖配置文件默认值。
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrInvalidInput
	}
	setting, err := s.repo.Upsert(key, models.JSON(value))
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetOrderTaxRatePercent 获取订单税率（百分比）
func (s *SettingService) GetOrderTaxRatePercent(defaultValue float64) (float64, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil || value == nil {
		return defaultValue, err
	}
	raw, ok := value[constants.SettingFieldTaxRate]
	if !ok {
		return defaultValue, nil
	}
	rate, err := parseSettingFloat(raw)
	if err != nil || rate < 0 {
		return defaultValue, nil
	}
	return rate, nil
}

// GetOrderDeliveryFee 获取配送费
func (s *SettingService) GetOrderDeliveryFee(defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil || value == nil {
		return defaultValue, err
	}
	raw, ok := value[constants.SettingFieldDeliveryFee]
	if !ok {
		return defaultValue, nil
	}
	fee, err := parseSettingDecimal(raw)
	if err != nil || fee.IsNegative() {
		return defaultValue, nil
	}
	return fee, nil
}

// GetOrderPendingTimeoutMinutes 获取待确认订单超时分钟数
func (s *SettingService) GetOrderPendingTimeoutMinutes(defaultValue int) (int, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil || value == nil {
		return defaultValue, err
	}
	raw, ok := value[constants.SettingFieldPendingTimeoutMins]
	if !ok {
		return defaultValue, nil
	}
	minutes, err := parseSettingInt(raw)
	if err != nil || minutes <= 0 {
		return defaultValue, nil
	}
	return minutes, nil
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.Atoi(trimmed)
	default:
		return 0, fmt.Errorf("unsupported value type")
	}
}

func parseSettingFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(trimmed, 64)
	default:
		return 0, fmt.Errorf("unsupported value type")
	}
}

func parseSettingDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported value type")
	}
}
