package repo

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vasthra/saree-works/internal/domain"
)

// PurchaseRepository 定义采购记录数据访问接口。
// 每个写操作连同其对原料库存的带符号调整在同一事务内提交或回滚。
type PurchaseRepository interface {
	Create(purchase *domain.Purchase) error
	List() ([]*domain.Purchase, error)
	GetByID(id string) (*domain.Purchase, error)
	Update(id string, purchase *domain.Purchase) error
	Delete(id string) error
}

// purchaseRepo 实现 PurchaseRepository 接口
type purchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepository 创建采购仓储实例
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepo{db: db}
}

// Create 写入采购记录并为对应原料加库存，单事务
func (r *purchaseRepo) Create(purchase *domain.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO purchases (id, date, product_code, product_name, quantity) VALUES (?, ?, ?, ?, ?)`,
		purchase.ID, purchase.Date, purchase.ProductCode, purchase.ProductName, purchase.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := adjustStockByCodeTx(tx, purchase.ProductCode, purchase.Quantity); err != nil {
		return err
	}

	return tx.Commit()
}

// List 按创建时间倒序返回全部采购记录
func (r *purchaseRepo) List() ([]*domain.Purchase, error) {
	query := `
		SELECT id, date, product_code, product_name, quantity, created_at
		FROM purchases
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		p := &domain.Purchase{}
		if err := rows.Scan(&p.ID, &p.Date, &p.ProductCode, &p.ProductName, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// GetByID 根据ID获取采购记录，不存在时返回 nil
func (r *purchaseRepo) GetByID(id string) (*domain.Purchase, error) {
	query := `
		SELECT id, date, product_code, product_name, quantity, created_at
		FROM purchases
		WHERE id = ?
	`
	p := &domain.Purchase{}
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Date, &p.ProductCode, &p.ProductName, &p.Quantity, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase by id: %w", err)
	}
	return p, nil
}

// Update 更新采购记录，并按 newQty - oldQty 的差值调整库存，单事务。
// 旧记录行加锁读取，避免并发编辑丢失差值。
func (r *purchaseRepo) Update(id string, purchase *domain.Purchase) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldQty int
	var oldCode string
	err = tx.QueryRow(`SELECT quantity, product_code FROM purchases WHERE id = ? FOR UPDATE`, id).Scan(&oldQty, &oldCode)
	if err == sql.ErrNoRows {
		return domain.ErrPurchaseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock purchase: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE purchases SET date = ?, product_code = ?, product_name = ?, quantity = ? WHERE id = ?`,
		purchase.Date, purchase.ProductCode, purchase.ProductName, purchase.Quantity, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}

	// 编码变更时旧原料退回全部数量、新原料加入全部数量；
	// 未变更时按差值调整
	if oldCode != purchase.ProductCode {
		if err := adjustStockByCodeTx(tx, oldCode, -oldQty); err != nil {
			return err
		}
		if err := adjustStockByCodeTx(tx, purchase.ProductCode, purchase.Quantity); err != nil {
			return err
		}
	} else {
		if err := adjustStockByCodeTx(tx, purchase.ProductCode, purchase.Quantity-oldQty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete 删除采购记录并从库存扣回其数量，单事务。
// 若该数量已被订单占用消耗，扣回会使库存为负，守护式更新将拒绝整个删除。
func (r *purchaseRepo) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var qty int
	var code string
	err = tx.QueryRow(`SELECT quantity, product_code FROM purchases WHERE id = ? FOR UPDATE`, id).Scan(&qty, &code)
	if err == sql.ErrNoRows {
		return domain.ErrPurchaseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock purchase: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM purchases WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	if err := adjustStockByCodeTx(tx, code, -qty); err != nil {
		return err
	}

	return tx.Commit()
}
