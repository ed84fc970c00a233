package api

import (
	"context"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/service"
)

// MockOrderService for testing
type MockOrderService struct {
	createFunc        func(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error)
	updateFunc        func(ctx context.Context, id string, req *domain.UpdateOrderRequest) (*domain.Order, error)
	completeFunc      func(ctx context.Context, id string, productCount int, items []domain.CompleteOrderItem, attachments []service.AttachmentUpload) (*domain.Order, error)
	markDeliveredFunc func(ctx context.Context, id string) (*domain.Order, error)
	deleteFunc        func(ctx context.Context, id string) error
	listFunc          func() ([]*domain.Order, error)
	listCompletedFunc func() ([]*domain.Order, error)
	getFunc           func(id string) (*domain.Order, error)
	orderQRFunc       func(id string) (string, error)
	sareeQRFunc       func(id string) ([]string, error)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.Order{ID: "order-1", Status: domain.OrderStatusPending}, nil
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id string, req *domain.UpdateOrderRequest) (*domain.Order, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req)
	}
	return &domain.Order{ID: id, Status: domain.OrderStatusPending}, nil
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, id string, productCount int, items []domain.CompleteOrderItem, attachments []service.AttachmentUpload) (*domain.Order, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, id, productCount, items, attachments)
	}
	return &domain.Order{ID: id, Status: domain.OrderStatusCompleted, ProductCount: &productCount}, nil
}

func (m *MockOrderService) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	if m.markDeliveredFunc != nil {
		return m.markDeliveredFunc(ctx, id)
	}
	return &domain.Order{ID: id, Status: domain.OrderStatusDelivered}, nil
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *MockOrderService) ListOrders() ([]*domain.Order, error) {
	if m.listFunc != nil {
		return m.listFunc()
	}
	return []*domain.Order{{ID: "order-1"}}, nil
}

func (m *MockOrderService) ListCompletedOrders() ([]*domain.Order, error) {
	if m.listCompletedFunc != nil {
		return m.listCompletedFunc()
	}
	return nil, nil
}

func (m *MockOrderService) GetOrder(id string) (*domain.Order, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return &domain.Order{ID: id}, nil
}

func (m *MockOrderService) OrderQR(id string) (string, error) {
	if m.orderQRFunc != nil {
		return m.orderQRFunc(id)
	}
	return "data:image/png;base64,AAAA", nil
}

func (m *MockOrderService) SareeQRBatch(id string) ([]string, error) {
	if m.sareeQRFunc != nil {
		return m.sareeQRFunc(id)
	}
	return []string{"data:image/png;base64,AAAA"}, nil
}

// MockClientService for testing
type MockClientService struct {
	createFunc func(req *domain.CreateClientRequest) (*domain.Client, error)
	listFunc   func() ([]*domain.Client, error)
	getFunc    func(id string) (*domain.Client, error)
	updateFunc func(id string, req *domain.UpdateClientRequest) (*domain.Client, error)
	deleteFunc func(id string) error
}

func (m *MockClientService) CreateClient(req *domain.CreateClientRequest) (*domain.Client, error) {
	if m.createFunc != nil {
		return m.createFunc(req)
	}
	return &domain.Client{ID: "client-1", CustomerCode: req.CustomerCode, CustomerName: req.CustomerName}, nil
}

func (m *MockClientService) ListClients() ([]*domain.Client, error) {
	if m.listFunc != nil {
		return m.listFunc()
	}
	return []*domain.Client{{ID: "client-1", CustomerCode: "CUST-01"}}, nil
}

func (m *MockClientService) GetClient(id string) (*domain.Client, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return &domain.Client{ID: id}, nil
}

func (m *MockClientService) UpdateClient(id string, req *domain.UpdateClientRequest) (*domain.Client, error) {
	if m.updateFunc != nil {
		return m.updateFunc(id, req)
	}
	return &domain.Client{ID: id, CustomerName: req.CustomerName}, nil
}

func (m *MockClientService) DeleteClient(id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(id)
	}
	return nil
}
