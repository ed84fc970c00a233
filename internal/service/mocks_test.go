package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/mq"
	"github.com/vasthra/saree-works/internal/repo"
)

// Mock ClientRepository for testing
type mockClientRepository struct {
	clients map[string]*domain.Client
	codes   map[string]bool
	nextID  int
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{
		clients: make(map[string]*domain.Client),
		codes:   make(map[string]bool),
		nextID:  1,
	}
}

func (m *mockClientRepository) Create(client *domain.Client) error {
	if m.codes[client.CustomerCode] {
		return domain.ErrDuplicateCode
	}
	if client.ID == "" {
		client.ID = fmt.Sprintf("client-%d", m.nextID)
		m.nextID++
	}
	m.clients[client.ID] = client
	m.codes[client.CustomerCode] = true
	return nil
}

func (m *mockClientRepository) List() ([]*domain.Client, error) {
	var result []*domain.Client
	for _, c := range m.clients {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockClientRepository) GetByID(id string) (*domain.Client, error) {
	return m.clients[id], nil
}

func (m *mockClientRepository) Update(id string, req *domain.UpdateClientRequest) error {
	c, exists := m.clients[id]
	if !exists {
		return domain.ErrClientNotFound
	}
	c.CustomerName = req.CustomerName
	c.PhoneNumber = req.PhoneNumber
	c.Place = req.Place
	return nil
}

func (m *mockClientRepository) Delete(id string) error {
	c, exists := m.clients[id]
	if !exists {
		return domain.ErrClientNotFound
	}
	delete(m.codes, c.CustomerCode)
	delete(m.clients, id)
	return nil
}

// Mock MaterialRepository for testing
type mockMaterialRepository struct {
	materials map[string]*domain.Material
	codes     map[string]bool
	nextID    int
}

func newMockMaterialRepository() *mockMaterialRepository {
	return &mockMaterialRepository{
		materials: make(map[string]*domain.Material),
		codes:     make(map[string]bool),
		nextID:    1,
	}
}

func (m *mockMaterialRepository) Create(material *domain.Material) error {
	if m.codes[material.MaterialCode] {
		return domain.ErrDuplicateCode
	}
	if material.ID == "" {
		material.ID = fmt.Sprintf("material-%d", m.nextID)
		m.nextID++
	}
	material.Stock = 0
	m.materials[material.ID] = material
	m.codes[material.MaterialCode] = true
	return nil
}

func (m *mockMaterialRepository) List() ([]*domain.Material, error) {
	var result []*domain.Material
	for _, mat := range m.materials {
		result = append(result, mat)
	}
	return result, nil
}

func (m *mockMaterialRepository) GetByID(id string) (*domain.Material, error) {
	return m.materials[id], nil
}

func (m *mockMaterialRepository) Update(id string, req *domain.UpdateMaterialRequest) error {
	mat, exists := m.materials[id]
	if !exists {
		return domain.ErrMaterialNotFound
	}
	mat.MaterialName = req.MaterialName
	mat.Description = req.Description
	mat.Color = req.Color
	return nil
}

func (m *mockMaterialRepository) Delete(id string) error {
	mat, exists := m.materials[id]
	if !exists {
		return domain.ErrMaterialNotFound
	}
	delete(m.codes, mat.MaterialCode)
	delete(m.materials, id)
	return nil
}

// Mock PurchaseRepository for testing
// Stock bookkeeping mirrors the transactional repo: create adds, delete
// subtracts, update applies the signed delta.
type mockPurchaseRepository struct {
	purchases map[string]*domain.Purchase
	stocks    map[string]int // material code -> stock
	nextID    int
}

func newMockPurchaseRepository() *mockPurchaseRepository {
	return &mockPurchaseRepository{
		purchases: make(map[string]*domain.Purchase),
		stocks:    make(map[string]int),
		nextID:    1,
	}
}

func (m *mockPurchaseRepository) Create(purchase *domain.Purchase) error {
	if _, exists := m.stocks[purchase.ProductCode]; !exists {
		return domain.ErrMaterialNotFound
	}
	if purchase.ID == "" {
		purchase.ID = fmt.Sprintf("purchase-%d", m.nextID)
		m.nextID++
	}
	m.purchases[purchase.ID] = purchase
	m.stocks[purchase.ProductCode] += purchase.Quantity
	return nil
}

func (m *mockPurchaseRepository) List() ([]*domain.Purchase, error) {
	var result []*domain.Purchase
	for _, p := range m.purchases {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockPurchaseRepository) GetByID(id string) (*domain.Purchase, error) {
	return m.purchases[id], nil
}

func (m *mockPurchaseRepository) Update(id string, purchase *domain.Purchase) error {
	old, exists := m.purchases[id]
	if !exists {
		return domain.ErrPurchaseNotFound
	}
	if _, ok := m.stocks[purchase.ProductCode]; !ok {
		return domain.ErrMaterialNotFound
	}
	if purchase.ProductCode != old.ProductCode {
		if m.stocks[old.ProductCode]-old.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		m.stocks[old.ProductCode] -= old.Quantity
		m.stocks[purchase.ProductCode] += purchase.Quantity
	} else {
		delta := purchase.Quantity - old.Quantity
		if m.stocks[old.ProductCode]+delta < 0 {
			return domain.ErrInsufficientStock
		}
		m.stocks[old.ProductCode] += delta
	}
	purchase.ID = id
	m.purchases[id] = purchase
	return nil
}

func (m *mockPurchaseRepository) Delete(id string) error {
	p, exists := m.purchases[id]
	if !exists {
		return domain.ErrPurchaseNotFound
	}
	if m.stocks[p.ProductCode]-p.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	m.stocks[p.ProductCode] -= p.Quantity
	delete(m.purchases, id)
	return nil
}

// orderState 模拟数据库中订单相关的全部可变状态
type orderState struct {
	orders      map[string]*domain.Order
	items       map[string][]domain.OrderItem
	attachments map[string][]domain.OrderAttachment
	stocks      map[string]int // material id -> stock
	nextID      int
}

func (s *orderState) clone() *orderState {
	c := &orderState{
		orders:      make(map[string]*domain.Order, len(s.orders)),
		items:       make(map[string][]domain.OrderItem, len(s.items)),
		attachments: make(map[string][]domain.OrderAttachment, len(s.attachments)),
		stocks:      make(map[string]int, len(s.stocks)),
		nextID:      s.nextID,
	}
	for id, o := range s.orders {
		cp := *o
		c.orders[id] = &cp
	}
	for id, its := range s.items {
		c.items[id] = append([]domain.OrderItem(nil), its...)
	}
	for id, atts := range s.attachments {
		c.attachments[id] = append([]domain.OrderAttachment(nil), atts...)
	}
	for id, st := range s.stocks {
		c.stocks[id] = st
	}
	return c
}

// Mock OrderRepository for testing
// InTx 在状态副本上运行，失败时丢弃副本，模拟事务回滚。
type mockOrderRepository struct {
	state *orderState
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		state: &orderState{
			orders:      make(map[string]*domain.Order),
			items:       make(map[string][]domain.OrderItem),
			attachments: make(map[string][]domain.OrderAttachment),
			stocks:      make(map[string]int),
			nextID:      1,
		},
	}
}

func (m *mockOrderRepository) setStock(materialID string, stock int) {
	m.state.stocks[materialID] = stock
}

func (m *mockOrderRepository) stock(materialID string) int {
	return m.state.stocks[materialID]
}

func (m *mockOrderRepository) InTx(fn func(ops repo.OrderOps) error) error {
	snap := m.state.clone()
	if err := fn(&mockOrderOps{state: snap}); err != nil {
		return err
	}
	m.state = snap
	return nil
}

func (m *mockOrderRepository) List() ([]*domain.Order, error) {
	var result []*domain.Order
	for _, o := range m.state.orders {
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), m.state.items[o.ID]...)
		result = append(result, &cp)
	}
	return result, nil
}

func (m *mockOrderRepository) ListByStatus(status domain.OrderStatus) ([]*domain.Order, error) {
	all, _ := m.List()
	var result []*domain.Order
	for _, o := range all {
		if o.Status == status {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) GetByID(id string) (*domain.Order, error) {
	o, exists := m.state.orders[id]
	if !exists {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), m.state.items[id]...)
	return &cp, nil
}

// mockOrderOps 对状态副本实现 repo.OrderOps
type mockOrderOps struct {
	state *orderState
}

func (ops *mockOrderOps) StockForUpdate(materialID string) (int, error) {
	stock, exists := ops.state.stocks[materialID]
	if !exists {
		return 0, domain.ErrMaterialNotFound
	}
	return stock, nil
}

func (ops *mockOrderOps) AdjustStock(materialID string, delta int) error {
	stock, exists := ops.state.stocks[materialID]
	if !exists {
		return domain.ErrMaterialNotFound
	}
	if stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	ops.state.stocks[materialID] = stock + delta
	return nil
}

func (ops *mockOrderOps) InsertOrder(order *domain.Order) error {
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", ops.state.nextID)
		ops.state.nextID++
	}
	order.Status = domain.OrderStatusPending
	cp := *order
	ops.state.orders[order.ID] = &cp
	return nil
}

func (ops *mockOrderOps) UpdateOrderFields(id string, orderDate time.Time, customerName string, salary, productQty int) error {
	o, exists := ops.state.orders[id]
	if !exists {
		return domain.ErrOrderNotFound
	}
	o.OrderDate = orderDate
	o.CustomerName = customerName
	o.Salary = salary
	o.ProductQty = productQty
	return nil
}

func (ops *mockOrderOps) CompleteOrder(id string, productCount int) error {
	o, exists := ops.state.orders[id]
	if !exists || o.Status != domain.OrderStatusPending {
		return domain.ErrOrderNotFound
	}
	o.Status = domain.OrderStatusCompleted
	o.ProductCount = &productCount
	return nil
}

func (ops *mockOrderOps) DeliverOrder(id string) error {
	o, exists := ops.state.orders[id]
	if !exists || o.Status != domain.OrderStatusCompleted {
		return domain.ErrOrderNotFound
	}
	o.Status = domain.OrderStatusDelivered
	return nil
}

func (ops *mockOrderOps) OrderStatus(id string) (domain.OrderStatus, error) {
	o, exists := ops.state.orders[id]
	if !exists {
		return "", domain.ErrOrderNotFound
	}
	return o.Status, nil
}

func (ops *mockOrderOps) DeleteOrder(id string) error {
	delete(ops.state.orders, id)
	delete(ops.state.items, id)
	delete(ops.state.attachments, id)
	return nil
}

func (ops *mockOrderOps) ItemsForOrder(orderID string) ([]domain.OrderItem, error) {
	return append([]domain.OrderItem(nil), ops.state.items[orderID]...), nil
}

func (ops *mockOrderOps) InsertItem(item *domain.OrderItem) error {
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%d", ops.state.nextID)
		ops.state.nextID++
	}
	ops.state.items[item.OrderID] = append(ops.state.items[item.OrderID], *item)
	return nil
}

func (ops *mockOrderOps) DeleteItems(orderID string) error {
	delete(ops.state.items, orderID)
	return nil
}

func (ops *mockOrderOps) InsertAttachment(att *domain.OrderAttachment) error {
	if att.ID == "" {
		att.ID = fmt.Sprintf("att-%d", ops.state.nextID)
		ops.state.nextID++
	}
	ops.state.attachments[att.OrderID] = append(ops.state.attachments[att.OrderID], *att)
	return nil
}

// Mock ObjectStore for testing
type mockObjectStore struct {
	saved   []string
	saveErr error
}

func (m *mockObjectStore) Save(ctx context.Context, category, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	path := category + "/" + fileName
	m.saved = append(m.saved, path)
	return path, nil
}

// Mock Publisher for testing
type mockPublisher struct {
	events []*mq.OrderEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event *mq.OrderEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
