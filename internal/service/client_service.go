// Package service 实现业务逻辑层，协调各种资源完成业务需求。
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/repo"
)

// 业务校验错误，处理器据此映射为参数错误响应
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ClientService 定义客户业务逻辑接口
type ClientService interface {
	CreateClient(req *domain.CreateClientRequest) (*domain.Client, error)
	ListClients() ([]*domain.Client, error)
	GetClient(id string) (*domain.Client, error)
	UpdateClient(id string, req *domain.UpdateClientRequest) (*domain.Client, error)
	DeleteClient(id string) error
}

// clientService 实现ClientService接口
type clientService struct {
	clientRepo repo.ClientRepository
}

// NewClientService 创建客户服务实例
func NewClientService(clientRepo repo.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

// CreateClient 创建客户档案
func (s *clientService) CreateClient(req *domain.CreateClientRequest) (*domain.Client, error) {
	req.CustomerCode = strings.TrimSpace(req.CustomerCode)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerCode == "" || req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer code and name are required", ErrInvalidInput)
	}

	client := &domain.Client{
		CustomerCode: req.CustomerCode,
		CustomerName: req.CustomerName,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Place:        strings.TrimSpace(req.Place),
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// ListClients 获取客户列表
func (s *clientService) ListClients() ([]*domain.Client, error) {
	return s.clientRepo.List()
}

// GetClient 获取客户详情
func (s *clientService) GetClient(id string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}
	return client, nil
}

// UpdateClient 更新客户档案，客户编码不可变更
func (s *clientService) UpdateClient(id string, req *domain.UpdateClientRequest) (*domain.Client, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	existing, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrClientNotFound
	}

	if err := s.clientRepo.Update(id, req); err != nil {
		return nil, err
	}
	return s.GetClient(id)
}

// DeleteClient 删除客户档案
func (s *clientService) DeleteClient(id string) error {
	return s.clientRepo.Delete(id)
}
