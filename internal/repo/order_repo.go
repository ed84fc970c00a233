package repo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vasthra/saree-works/internal/domain"
)

// OrderOps 是订单事务作用域内可用的操作集合。
// 实现持有同一个 *sql.Tx：FOR UPDATE 行锁与所有写入要么一起提交、
// 要么一起回滚，库存与订单/明细之间不会出现部分生效。
type OrderOps interface {
	// 台账操作
	StockForUpdate(materialID string) (int, error)
	AdjustStock(materialID string, delta int) error

	// 订单行操作
	InsertOrder(order *domain.Order) error
	UpdateOrderFields(id string, orderDate time.Time, customerName string, salary, productQty int) error
	CompleteOrder(id string, productCount int) error
	DeliverOrder(id string) error
	OrderStatus(id string) (domain.OrderStatus, error)
	DeleteOrder(id string) error

	// 明细操作
	ItemsForOrder(orderID string) ([]domain.OrderItem, error)
	InsertItem(item *domain.OrderItem) error
	DeleteItems(orderID string) error

	// 附件操作
	InsertAttachment(att *domain.OrderAttachment) error
}

// OrderRepository 定义订单数据访问接口。
// 写路径全部经由 InTx 的事务作用域执行；读路径为普通查询，
// 可能观察到与在途事务相比瞬时陈旧的库存值（展示用途可接受）。
type OrderRepository interface {
	InTx(fn func(ops OrderOps) error) error
	List() ([]*domain.Order, error)
	ListByStatus(status domain.OrderStatus) ([]*domain.Order, error)
	GetByID(id string) (*domain.Order, error)
}

// orderRepo 实现 OrderRepository 接口
type orderRepo struct {
	db *sql.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepo{db: db}
}

// InTx 在单个数据库事务中执行 fn。
// fn 返回错误或提交失败时整个事务回滚，不留下任何部分效果。
func (r *orderRepo) InTx(fn func(ops OrderOps) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&orderOps{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const orderColumns = `id, order_date, customer_name, salary, product_qty, status, product_count, created_at, updated_at`

// List 按创建时间倒序返回全部订单及解析后的明细
func (r *orderRepo) List() ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(query)
}

// ListByStatus 按状态过滤，仍为倒序
func (r *orderRepo) ListByStatus(status domain.OrderStatus) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE status = ? ORDER BY created_at DESC`, orderColumns)
	return r.queryOrders(query, string(status))
}

// GetByID 根据ID获取订单及明细，不存在时返回 nil
func (r *orderRepo) GetByID(id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = ?`, orderColumns)
	o := &domain.Order{}
	err := scanOrder(r.db.QueryRow(query, id), o)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}

	items, err := r.itemsWithNames(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *orderRepo) queryOrders(query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o := &domain.Order{}
		if err := scanOrder(rows, o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, o := range orders {
		items, err := r.itemsWithNames(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

// itemsWithNames 读取订单明细并在读取时联表解析原料名。
// 原料已被删除时名称为空，明细本身保留。
func (r *orderRepo) itemsWithNames(orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.item_type, oi.item_id, COALESCE(m.material_name, ''), oi.qty
		FROM order_items oi
		LEFT JOIN materials m ON m.id = oi.item_id
		WHERE oi.order_id = ? AND oi.item_type = ?
	`
	rows, err := r.db.Query(query, orderID, domain.ItemTypeMaterial)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemType, &it.MaterialID, &it.MaterialName, &it.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderDate,
		&o.CustomerName,
		&o.Salary,
		&o.ProductQty,
		&o.Status,
		&o.ProductCount,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// orderOps 基于单个事务实现 OrderOps
type orderOps struct {
	tx *sql.Tx
}

func (ops *orderOps) StockForUpdate(materialID string) (int, error) {
	return getStockForUpdateTx(ops.tx, materialID)
}

func (ops *orderOps) AdjustStock(materialID string, delta int) error {
	return adjustStockTx(ops.tx, materialID, delta)
}

func (ops *orderOps) InsertOrder(order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	_, err := ops.tx.Exec(
		`INSERT INTO orders (id, order_date, customer_name, salary, product_qty, status) VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderDate, order.CustomerName, order.Salary, order.ProductQty, string(domain.OrderStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	order.Status = domain.OrderStatusPending
	return nil
}

func (ops *orderOps) UpdateOrderFields(id string, orderDate time.Time, customerName string, salary, productQty int) error {
	_, err := ops.tx.Exec(
		`UPDATE orders SET order_date = ?, customer_name = ?, salary = ?, product_qty = ? WHERE id = ?`,
		orderDate, customerName, salary, productQty, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// CompleteOrder 将订单置为 COMPLETED 并记录实际成品数。
// WHERE 条件限定 PENDING：重复完工或对已发货订单完工都命中 0 行，
// 不会二次生效。
func (ops *orderOps) CompleteOrder(id string, productCount int) error {
	result, err := ops.tx.Exec(
		`UPDATE orders SET status = ?, product_count = ? WHERE id = ? AND status = ?`,
		string(domain.OrderStatusCompleted), productCount, id, string(domain.OrderStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// DeliverOrder 将订单置为 DELIVERED，仅允许从 COMPLETED 出发
func (ops *orderOps) DeliverOrder(id string) error {
	result, err := ops.tx.Exec(
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		string(domain.OrderStatusDelivered), id, string(domain.OrderStatusCompleted),
	)
	if err != nil {
		return fmt.Errorf("failed to mark order delivered: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (ops *orderOps) OrderStatus(id string) (domain.OrderStatus, error) {
	var status string
	err := ops.tx.QueryRow(`SELECT status FROM orders WHERE id = ? FOR UPDATE`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", domain.ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get order status: %w", err)
	}
	return domain.OrderStatus(status), nil
}

func (ops *orderOps) DeleteOrder(id string) error {
	// 明细与附件由外键级联删除
	if _, err := ops.tx.Exec(`DELETE FROM orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (ops *orderOps) ItemsForOrder(orderID string) ([]domain.OrderItem, error) {
	rows, err := ops.tx.Query(
		`SELECT id, order_id, item_type, item_id, qty FROM order_items WHERE order_id = ?`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemType, &it.MaterialID, &it.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (ops *orderOps) InsertItem(item *domain.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.ItemType == "" {
		item.ItemType = domain.ItemTypeMaterial
	}
	_, err := ops.tx.Exec(
		`INSERT INTO order_items (id, order_id, item_type, item_id, qty) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.OrderID, item.ItemType, item.MaterialID, item.Qty,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

func (ops *orderOps) DeleteItems(orderID string) error {
	if _, err := ops.tx.Exec(`DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}

func (ops *orderOps) InsertAttachment(att *domain.OrderAttachment) error {
	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	_, err := ops.tx.Exec(
		`INSERT INTO order_attachments (id, order_id, file_name, object_path) VALUES (?, ?, ?, ?)`,
		att.ID, att.OrderID, att.FileName, att.ObjectPath,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order attachment: %w", err)
	}
	return nil
}
