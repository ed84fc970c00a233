package domain

import "time"

// OrderStatus 订单状态
type OrderStatus string

// 订单状态机：PENDING --edit--> PENDING，PENDING --complete--> COMPLETED，
// COMPLETED --markDelivered--> DELIVERED。DELIVERED 为终态。
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// Deletable 判断该状态下的订单是否允许删除。
// 已发货订单的实物已离厂，删除并回冲库存会造成账实不符，因此禁止。
func (s OrderStatus) Deletable() bool {
	return s != OrderStatusDelivered
}

// Order 表示一张生产订单。
// CustomerName 为下单时点的快照，不关联客户档案。
// ProductQty 是客户要求的数量；ProductCount 是完工时登记的实际成品数
// （因退料/损耗可能与 ProductQty 不同），完工前为 nil。
type Order struct {
	ID           string      `json:"id"`
	OrderDate    time.Time   `json:"order_date"`
	CustomerName string      `json:"customer_name"`
	Salary       int         `json:"salary"`
	ProductQty   int         `json:"product_qty"`
	Status       OrderStatus `json:"status"`
	ProductCount *int        `json:"product_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Items        []OrderItem `json:"items"`
}

// OrderItem 表示订单中的一条原料占用明细。
// MaterialName 在读取时联表解析，不落库。
type OrderItem struct {
	ID           string `json:"-"`
	OrderID      string `json:"-"`
	ItemType     string `json:"-"`
	MaterialID   string `json:"materialId"`
	MaterialName string `json:"materialName,omitempty"`
	Qty          int    `json:"qty"`
}

// 目前唯一的明细类型。保留字段以便将来扩展到成品/辅料。
const ItemTypeMaterial = "MATERIAL"

// OrderAttachment 表示完工时上传的附件（交验照片等），按引用存储。
type OrderAttachment struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	FileName   string    `json:"file_name"`
	ObjectPath string    `json:"object_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderItemRequest 表示下单/改单时的一条明细
type OrderItemRequest struct {
	MaterialID string `json:"materialId"`
	Qty        int    `json:"qty"`
}

// CreateOrderRequest 表示下单请求
type CreateOrderRequest struct {
	OrderDate    string             `json:"orderDate"` // YYYY-MM-DD
	CustomerName string             `json:"customerName"`
	Salary       int                `json:"salary"`
	ProductQty   int                `json:"productQty"`
	Items        []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest 表示改单请求。
// 明细采用全量替换：先回冲旧明细的库存占用，再按新明细重新校验并占用。
type UpdateOrderRequest struct {
	OrderDate    string             `json:"orderDate"`
	CustomerName string             `json:"customerName"`
	Salary       int                `json:"salary"`
	ProductQty   int                `json:"productQty"`
	Items        []OrderItemRequest `json:"items"`
}

// CompleteOrderItem 表示完工时对一条明细的退料登记。
// ReturnQty 为未用退回库存的数量，0 表示无退料。
type CompleteOrderItem struct {
	MaterialID string `json:"materialId"`
	Qty        int    `json:"qty"`
	ReturnQty  int    `json:"returnQty"`
}

// MarkDeliveredRequest 表示发货登记请求
type MarkDeliveredRequest struct {
	OrderID string `json:"orderId"`
}
