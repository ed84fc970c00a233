package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher 定义订单事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event *OrderEvent) error
	Close() error
}

// RabbitPublisher 基于 RabbitMQ 的事件发布器
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewRabbitPublisher 创建 RabbitMQ 事件发布器并声明交换机
func NewRabbitPublisher(url, exchange string, logger *zap.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// topic 交换机，路由键即消息类型
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("rabbitmq publisher connected", zap.String("exchange", exchange))
	return &RabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 以路由键 = 消息类型发布持久化 JSON 消息
func (p *RabbitPublisher) Publish(ctx context.Context, event *OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("order event published",
		zap.String("type", string(event.Type)),
		zap.String("order_id", event.Data.OrderID))
	return nil
}

// Close 关闭通道与连接
func (p *RabbitPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher 空实现，MQ 未启用时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }
