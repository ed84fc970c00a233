// Package domain 定义业务领域模型、请求/响应结构与核心业务规则。
package domain

import "errors"

// 跨层使用的业务错误。
// 仓储层在守护式更新失败时返回这些哨兵错误，API 层用 errors.Is 映射到 HTTP 状态码，
// 以区分"客户端可修正"（库存不足、记录不存在）与"存储异常"两类失败。
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrMaterialNotFound  = errors.New("material not found")
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderDelivered    = errors.New("order already delivered")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrDuplicateCode     = errors.New("code already exists")
)
