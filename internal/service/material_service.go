package service

import (
	"fmt"
	"strings"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/repo"
)

// MaterialService 定义原料业务逻辑接口
type MaterialService interface {
	CreateMaterial(req *domain.CreateMaterialRequest) (*domain.Material, error)
	ListMaterials() ([]*domain.Material, error)
	GetMaterial(id string) (*domain.Material, error)
	UpdateMaterial(id string, req *domain.UpdateMaterialRequest) (*domain.Material, error)
	DeleteMaterial(id string) error
}

// materialService 实现MaterialService接口
type materialService struct {
	materialRepo repo.MaterialRepository
}

// NewMaterialService 创建原料服务实例
func NewMaterialService(materialRepo repo.MaterialRepository) MaterialService {
	return &materialService{materialRepo: materialRepo}
}

// CreateMaterial 创建原料档案，初始库存为 0
func (s *materialService) CreateMaterial(req *domain.CreateMaterialRequest) (*domain.Material, error) {
	req.MaterialCode = strings.TrimSpace(req.MaterialCode)
	req.MaterialName = strings.TrimSpace(req.MaterialName)
	if req.MaterialCode == "" || req.MaterialName == "" {
		return nil, fmt.Errorf("%w: material code and name are required", ErrInvalidInput)
	}

	material := &domain.Material{
		MaterialCode: req.MaterialCode,
		MaterialName: req.MaterialName,
		Description:  strings.TrimSpace(req.Description),
		Color:        strings.TrimSpace(req.Color),
	}
	if err := s.materialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

// ListMaterials 获取原料列表（含当前库存）
func (s *materialService) ListMaterials() ([]*domain.Material, error) {
	return s.materialRepo.List()
}

// GetMaterial 获取原料详情
func (s *materialService) GetMaterial(id string) (*domain.Material, error) {
	material, err := s.materialRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if material == nil {
		return nil, domain.ErrMaterialNotFound
	}
	return material, nil
}

// UpdateMaterial 更新原料档案。库存不在可更新字段之列。
func (s *materialService) UpdateMaterial(id string, req *domain.UpdateMaterialRequest) (*domain.Material, error) {
	req.MaterialName = strings.TrimSpace(req.MaterialName)
	if req.MaterialName == "" {
		return nil, fmt.Errorf("%w: material name is required", ErrInvalidInput)
	}

	existing, err := s.materialRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrMaterialNotFound
	}

	if err := s.materialRepo.Update(id, req); err != nil {
		return nil, err
	}
	return s.GetMaterial(id)
}

// DeleteMaterial 删除原料档案
func (s *materialService) DeleteMaterial(id string) error {
	return s.materialRepo.Delete(id)
}
