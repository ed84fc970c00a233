package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/middleware"
	"github.com/vasthra/saree-works/internal/mq"
	"github.com/vasthra/saree-works/internal/repo"
	"github.com/vasthra/saree-works/internal/storage"
)

// AttachmentUpload 表示完工时随表单上传的一个附件
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// OrderService 定义订单业务逻辑接口
type OrderService interface {
	// 订单生命周期
	CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, req *domain.UpdateOrderRequest) (*domain.Order, error)
	CompleteOrder(ctx context.Context, id string, productCount int, items []domain.CompleteOrderItem, attachments []AttachmentUpload) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error

	// 订单查询
	ListOrders() ([]*domain.Order, error)
	ListCompletedOrders() ([]*domain.Order, error)
	GetOrder(id string) (*domain.Order, error)

	// 二维码
	OrderQR(id string) (string, error)
	SareeQRBatch(id string) ([]string, error)
}

// orderService 实现OrderService接口
type orderService struct {
	orderRepo repo.OrderRepository
	store     storage.ObjectStore
	publisher mq.Publisher
	logger    *zap.Logger
}

// NewOrderService 创建订单服务实例
func NewOrderService(orderRepo repo.OrderRepository, store storage.ObjectStore, publisher mq.Publisher, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func validateOrderItems(items []domain.OrderItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order must have at least one item", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.MaterialID == "" {
			return fmt.Errorf("%w: material id is required", ErrInvalidInput)
		}
		if it.Qty <= 0 {
			return fmt.Errorf("%w: item qty must be positive", ErrInvalidInput)
		}
		if seen[it.MaterialID] {
			return fmt.Errorf("%w: duplicate material in items", ErrInvalidInput)
		}
		seen[it.MaterialID] = true
	}
	return nil
}

func validateOrderFields(orderDate, customerName string, salary, productQty int) (time.Time, error) {
	if strings.TrimSpace(customerName) == "" {
		return time.Time{}, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if salary < 0 {
		return time.Time{}, fmt.Errorf("%w: salary must not be negative", ErrInvalidInput)
	}
	if productQty <= 0 {
		return time.Time{}, fmt.Errorf("%w: product qty must be positive", ErrInvalidInput)
	}
	d, err := time.Parse(dateLayout, orderDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: order date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return d, nil
}

// CreateOrder 下单。
// 单个事务内先对全部明细加行锁校验库存，任何一条不足则整单失败，
// 校验通过后写入订单与明细并逐条扣减库存。
func (s *orderService) CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error) {
	orderDate, err := validateOrderFields(req.OrderDate, req.CustomerName, req.Salary, req.ProductQty)
	if err != nil {
		return nil, err
	}
	if err := validateOrderItems(req.Items); err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderDate:    orderDate,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Salary:       req.Salary,
		ProductQty:   req.ProductQty,
	}

	err = s.orderRepo.InTx(func(ops repo.OrderOps) error {
		// 先全部校验再写入，避免部分扣减后才发现不足
		for _, it := range req.Items {
			stock, err := ops.StockForUpdate(it.MaterialID)
			if err != nil {
				return err
			}
			if stock < it.Qty {
				return domain.ErrInsufficientStock
			}
		}

		if err := ops.InsertOrder(order); err != nil {
			return err
		}
		for _, it := range req.Items {
			item := &domain.OrderItem{OrderID: order.ID, MaterialID: it.MaterialID, Qty: it.Qty}
			if err := ops.InsertItem(item); err != nil {
				return err
			}
			if err := ops.AdjustStock(it.MaterialID, -it.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, mq.MessageTypeOrderCreated, order)
	return s.GetOrder(order.ID)
}

// UpdateOrder 改单（仅限 PENDING）。
// 同一事务内先回冲旧明细的占用，再按新明细重新校验并占用；
// 任一步失败整体回滚，库存回到改单前的状态。
func (s *orderService) UpdateOrder(ctx context.Context, id string, req *domain.UpdateOrderRequest) (*domain.Order, error) {
	orderDate, err := validateOrderFields(req.OrderDate, req.CustomerName, req.Salary, req.ProductQty)
	if err != nil {
		return nil, err
	}
	if err := validateOrderItems(req.Items); err != nil {
		return nil, err
	}

	err = s.orderRepo.InTx(func(ops repo.OrderOps) error {
		status, err := ops.OrderStatus(id)
		if err != nil {
			return err
		}
		if status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		oldItems, err := ops.ItemsForOrder(id)
		if err != nil {
			return err
		}
		for _, it := range oldItems {
			if err := ops.AdjustStock(it.MaterialID, it.Qty); err != nil {
				return err
			}
		}
		if err := ops.DeleteItems(id); err != nil {
			return err
		}

		for _, it := range req.Items {
			stock, err := ops.StockForUpdate(it.MaterialID)
			if err != nil {
				return err
			}
			if stock < it.Qty {
				return domain.ErrInsufficientStock
			}
		}

		if err := ops.UpdateOrderFields(id, orderDate, strings.TrimSpace(req.CustomerName), req.Salary, req.ProductQty); err != nil {
			return err
		}
		for _, it := range req.Items {
			item := &domain.OrderItem{OrderID: id, MaterialID: it.MaterialID, Qty: it.Qty}
			if err := ops.InsertItem(item); err != nil {
				return err
			}
			if err := ops.AdjustStock(it.MaterialID, -it.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(id)
}

// CompleteOrder 完工登记。
// 附件先上传对象存储（失败则不动任何业务数据），随后在单个事务内
// 回冲各明细的退料量、置状态为 COMPLETED 并落附件引用。
func (s *orderService) CompleteOrder(ctx context.Context, id string, productCount int, items []domain.CompleteOrderItem, attachments []AttachmentUpload) (*domain.Order, error) {
	if productCount <= 0 {
		return nil, fmt.Errorf("%w: product count must be positive", ErrInvalidInput)
	}
	for _, it := range items {
		if it.ReturnQty < 0 || it.ReturnQty > it.Qty {
			return nil, fmt.Errorf("%w: return qty must be between 0 and the reserved qty", ErrInvalidInput)
		}
	}

	// 上传先行：对象存储不在数据库事务内，失败即中止
	var saved []domain.OrderAttachment
	for _, att := range attachments {
		objectPath, err := s.store.Save(ctx, "orders", att.FileName, att.Reader, att.Size, att.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to save attachment: %w", err)
		}
		saved = append(saved, domain.OrderAttachment{OrderID: id, FileName: att.FileName, ObjectPath: objectPath})
	}

	err := s.orderRepo.InTx(func(ops repo.OrderOps) error {
		status, err := ops.OrderStatus(id)
		if err != nil {
			return err
		}
		if status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		for _, it := range items {
			if err := ops.AdjustStock(it.MaterialID, it.ReturnQty); err != nil {
				return err
			}
		}
		if err := ops.CompleteOrder(id, productCount); err != nil {
			return err
		}
		for i := range saved {
			if err := ops.InsertAttachment(&saved[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, mq.MessageTypeOrderCompleted, order)
	return order, nil
}

// MarkDelivered 发货登记，仅允许 COMPLETED -> DELIVERED
func (s *orderService) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	err := s.orderRepo.InTx(func(ops repo.OrderOps) error {
		status, err := ops.OrderStatus(id)
		if err != nil {
			return err
		}
		if status != domain.OrderStatusCompleted {
			return domain.ErrOrderNotCompleted
		}
		return ops.DeliverOrder(id)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, mq.MessageTypeOrderDelivered, order)
	return order, nil
}

// DeleteOrder 删除订单并回冲其占用的库存。
// 已发货订单不可删除；已完工订单按原占用量全额回冲。
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	var deleted *domain.Order
	err := s.orderRepo.InTx(func(ops repo.OrderOps) error {
		status, err := ops.OrderStatus(id)
		if err != nil {
			return err
		}
		if !status.Deletable() {
			return domain.ErrOrderDelivered
		}

		items, err := ops.ItemsForOrder(id)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := ops.AdjustStock(it.MaterialID, it.Qty); err != nil {
				return err
			}
		}

		deleted = &domain.Order{ID: id, Status: status}
		return ops.DeleteOrder(id)
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, mq.MessageTypeOrderDeleted, deleted)
	return nil
}

// ListOrders 获取全部订单
func (s *orderService) ListOrders() ([]*domain.Order, error) {
	return s.orderRepo.List()
}

// ListCompletedOrders 获取 COMPLETED 状态（已完工未发货）的订单
func (s *orderService) ListCompletedOrders() ([]*domain.Order, error) {
	return s.orderRepo.ListByStatus(domain.OrderStatusCompleted)
}

// GetOrder 获取订单详情
func (s *orderService) GetOrder(id string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// OrderQR 生成整单二维码
func (s *orderService) OrderQR(id string) (string, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return "", err
	}
	return encodeQRDataURI(qrPayload{OrderID: order.ID, Type: "ORDER"})
}

// SareeQRBatch 按完工登记的实际成品数生成逐件二维码。
// 订单必须已完工且成品数大于 0。
func (s *orderService) SareeQRBatch(id string) ([]string, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.ProductCount == nil || *order.ProductCount <= 0 {
		return nil, fmt.Errorf("%w: order has no recorded product count", ErrInvalidInput)
	}

	total := *order.ProductCount
	qrs := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		qr, err := encodeQRDataURI(qrPayload{
			OrderID:  order.ID,
			Type:     "SAREE",
			Unit:     i,
			Total:    total,
			Customer: order.CustomerName,
			Date:     order.OrderDate.Format(dateLayout),
		})
		if err != nil {
			return nil, err
		}
		qrs = append(qrs, qr)
	}
	return qrs, nil
}

// publishEvent 提交后尽力发布事件，失败仅记日志不影响业务结果
func (s *orderService) publishEvent(ctx context.Context, msgType mq.MessageType, order *domain.Order) {
	event := mq.NewOrderEvent(msgType, mq.OrderEventData{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		ProductQty:   order.ProductQty,
	}, middleware.RequestIDFromContext(ctx))

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("type", string(msgType)),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
