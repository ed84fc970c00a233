// Package mq 提供订单事件的消息定义与发布
package mq

import (
	"time"

	"github.com/google/uuid"
)

// MessageType 消息类型
type MessageType string

const (
	MessageTypeOrderCreated   MessageType = "order_created"   // 订单创建
	MessageTypeOrderCompleted MessageType = "order_completed" // 订单完工
	MessageTypeOrderDelivered MessageType = "order_delivered" // 订单发货
	MessageTypeOrderDeleted   MessageType = "order_deleted"   // 订单删除
)

// OrderEvent 订单事件消息结构
type OrderEvent struct {
	ID        string      `json:"id"`        // 消息唯一ID
	Type      MessageType `json:"type"`      // 消息类型
	Timestamp time.Time   `json:"timestamp"` // 消息时间戳
	Source    string      `json:"source"`    // 消息源
	TraceID   string      `json:"trace_id"`  // 链路追踪ID

	// 业务数据
	Data OrderEventData `json:"data"`
}

// OrderEventData 订单事件业务数据
type OrderEventData struct {
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	ProductQty   int    `json:"product_qty"`
}

// NewOrderEvent 创建订单事件消息
func NewOrderEvent(msgType MessageType, data OrderEventData, traceID string) *OrderEvent {
	return &OrderEvent{
		ID:        uuid.New().String(),
		Type:      msgType,
		Timestamp: time.Now(),
		Source:    "saree-works",
		TraceID:   traceID,
		Data:      data,
	}
}
