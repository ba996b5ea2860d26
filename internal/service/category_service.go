package service

import (
	"strings"
	"time"

	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListPublic 顾客侧分类列表（仅启用）
func (s *CategoryService) ListPublic() ([]models.Category, error) {
	return s.categoryRepo.List(true)
}

// ListForAdmin 管理端分类列表
func (s *CategoryService) ListForAdmin() ([]models.Category, error) {
	return s.categoryRepo.List(false)
}

// CategoryInput 分类写入输入
type CategoryInput struct {
	Name      string
	Slug      string
	Icon      string
	SortOrder int
	IsActive  bool
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	if err := s.validateInput(&input, nil); err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:      strings.TrimSpace(input.Name),
		Slug:      input.Slug,
		Icon:      strings.TrimSpace(input.Icon),
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
		CreatedAt: time.Now(),
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.validateInput(&input, &id); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(input.Name)
	category.Slug = input.Slug
	category.Icon = strings.TrimSpace(input.Icon)
	category.SortOrder = input.SortOrder
	category.IsActive = input.IsActive
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类，仍挂有商品的分类拒绝删除
func (s *CategoryService) Delete(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}

func (s *CategoryService) validateInput(input *CategoryInput, excludeID *uint) error {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if strings.TrimSpace(input.Name) == "" || !slugPattern.MatchString(input.Slug) {
		return ErrInvalidInput
	}
	count, err := s.categoryRepo.CountBySlug(input.Slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}
