// Package repo 实现数据访问层，负责与 MySQL 的交互。
// 所有库存变更都经由本包内的守护式更新语句执行，非负不变量在语句层面强制成立。
package repo

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vasthra/saree-works/internal/domain"
)

// ClientRepository 定义客户档案数据访问接口
type ClientRepository interface {
	Create(client *domain.Client) error
	List() ([]*domain.Client, error)
	GetByID(id string) (*domain.Client, error)
	Update(id string, req *domain.UpdateClientRequest) error
	Delete(id string) error
}

// clientRepo 实现 ClientRepository 接口
type clientRepo struct {
	db *sql.DB
}

// NewClientRepository 创建客户仓储实例
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepo{db: db}
}

// Create 创建客户记录，ID 为空时生成 UUID
func (r *clientRepo) Create(client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	query := `
		INSERT INTO clients (id, customer_code, customer_name, phone_number, place)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		client.ID,
		client.CustomerCode,
		client.CustomerName,
		client.PhoneNumber,
		client.Place,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// List 按创建时间倒序返回全部客户
func (r *clientRepo) List() ([]*domain.Client, error) {
	query := `
		SELECT id, customer_code, customer_name, phone_number, place, created_at, updated_at
		FROM clients
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c := &domain.Client{}
		if err := rows.Scan(&c.ID, &c.CustomerCode, &c.CustomerName, &c.PhoneNumber, &c.Place, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// GetByID 根据ID获取客户，不存在时返回 nil
func (r *clientRepo) GetByID(id string) (*domain.Client, error) {
	query := `
		SELECT id, customer_code, customer_name, phone_number, place, created_at, updated_at
		FROM clients
		WHERE id = ?
	`
	c := &domain.Client{}
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.CustomerCode, &c.CustomerName, &c.PhoneNumber, &c.Place, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client by id: %w", err)
	}
	return c, nil
}

// Update 更新客户的可变字段，客户编码不可变更
func (r *clientRepo) Update(id string, req *domain.UpdateClientRequest) error {
	query := `
		UPDATE clients
		SET customer_name = ?, phone_number = ?, place = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, req.CustomerName, req.PhoneNumber, req.Place, id)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// Delete 硬删除客户记录。
// 订单中的客户名是下单时点快照，不校验引用。
func (r *clientRepo) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
