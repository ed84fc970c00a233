package domain

import "time"

// Purchase 表示一次采购入库事件。
// 原料编码与名称为采购时点的快照（反规范化），不回溯原料档案的后续改动。
type Purchase struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	ProductCode string    `json:"productCode"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePurchaseRequest 表示创建采购请求
type CreatePurchaseRequest struct {
	Date        string `json:"date"` // YYYY-MM-DD
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// UpdatePurchaseRequest 表示更新采购请求
// 数量变更时按 newQty - oldQty 的差值调整对应原料库存。
type UpdatePurchaseRequest struct {
	Date        string `json:"date"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}
