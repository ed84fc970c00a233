package domain

import "time"

// Material 表示原料（面料/纱线等）档案及其在库数量。
// Stock 是全系统唯一的共享可变状态：采购入库增加、订单占用扣减。
// 非负不变量由仓储层的守护式更新在每次调整时强制执行。
type Material struct {
	ID           string    `json:"id"`
	MaterialCode string    `json:"material_code"`
	MaterialName string    `json:"material_name"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	Stock        int       `json:"stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasStock 判断当前库存是否足以占用指定数量
func (m *Material) HasStock(qty int) bool {
	return m.Stock >= qty
}

// CreateMaterialRequest 表示创建原料请求
type CreateMaterialRequest struct {
	MaterialCode string `json:"materialCode"`
	MaterialName string `json:"materialName"`
	Description  string `json:"description"`
	Color        string `json:"color"`
}

// UpdateMaterialRequest 表示更新原料请求
// 库存不可直接改写，只能经由采购或订单流转。
type UpdateMaterialRequest struct {
	MaterialName string `json:"materialName"`
	Description  string `json:"description"`
	Color        string `json:"color"`
}
