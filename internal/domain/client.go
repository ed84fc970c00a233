package domain

import "time"

// Client 表示客户档案
type Client struct {
	ID           string    `json:"id"`
	CustomerCode string    `json:"customer_code"`
	CustomerName string    `json:"customer_name"`
	PhoneNumber  string    `json:"phone_number"`
	Place        string    `json:"place"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateClientRequest 表示创建客户请求
type CreateClientRequest struct {
	CustomerCode string `json:"customerCode"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Place        string `json:"place"`
}

// UpdateClientRequest 表示更新客户请求
// 客户编码创建后不可变更，不在可更新字段之列。
type UpdateClientRequest struct {
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Place        string `json:"place"`
}
