package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/repo"
)

const dateLayout = "2006-01-02"

// PurchaseService 定义采购业务逻辑接口
type PurchaseService interface {
	CreatePurchase(req *domain.CreatePurchaseRequest) (*domain.Purchase, error)
	ListPurchases() ([]*domain.Purchase, error)
	GetPurchase(id string) (*domain.Purchase, error)
	UpdatePurchase(id string, req *domain.UpdatePurchaseRequest) (*domain.Purchase, error)
	DeletePurchase(id string) error
}

// purchaseService 实现PurchaseService接口
type purchaseService struct {
	purchaseRepo repo.PurchaseRepository
}

// NewPurchaseService 创建采购服务实例
func NewPurchaseService(purchaseRepo repo.PurchaseRepository) PurchaseService {
	return &purchaseService{purchaseRepo: purchaseRepo}
}

func (s *purchaseService) validate(date, code, name string, qty int) (time.Time, error) {
	if code == "" || name == "" {
		return time.Time{}, fmt.Errorf("%w: product code and name are required", ErrInvalidInput)
	}
	if qty <= 0 {
		return time.Time{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return d, nil
}

// CreatePurchase 登记采购并在同一事务内按原料编码增加库存
func (s *purchaseService) CreatePurchase(req *domain.CreatePurchaseRequest) (*domain.Purchase, error) {
	req.ProductCode = strings.TrimSpace(req.ProductCode)
	req.ProductName = strings.TrimSpace(req.ProductName)
	date, err := s.validate(req.Date, req.ProductCode, req.ProductName, req.Quantity)
	if err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		Date:        date,
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ListPurchases 获取采购记录列表
func (s *purchaseService) ListPurchases() ([]*domain.Purchase, error) {
	return s.purchaseRepo.List()
}

// GetPurchase 获取采购记录详情
func (s *purchaseService) GetPurchase(id string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, domain.ErrPurchaseNotFound
	}
	return purchase, nil
}

// UpdatePurchase 修正采购记录。
// 数量或原料编码变化时由仓储在同一事务内按差值调整库存。
func (s *purchaseService) UpdatePurchase(id string, req *domain.UpdatePurchaseRequest) (*domain.Purchase, error) {
	req.ProductCode = strings.TrimSpace(req.ProductCode)
	req.ProductName = strings.TrimSpace(req.ProductName)
	date, err := s.validate(req.Date, req.ProductCode, req.ProductName, req.Quantity)
	if err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		Date:        date,
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
	}
	if err := s.purchaseRepo.Update(id, purchase); err != nil {
		return nil, err
	}
	return s.GetPurchase(id)
}

// DeletePurchase 删除采购记录并回退对应入库量
func (s *purchaseService) DeletePurchase(id string) error {
	return s.purchaseRepo.Delete(id)
}
