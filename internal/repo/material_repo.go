package repo

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vasthra/saree-works/internal/domain"
)

// MaterialRepository 定义原料档案数据访问接口。
// 档案 CRUD 之外不暴露直接改写库存的方法：库存只能经由
// 采购与订单事务中的守护式调整语句变化。
type MaterialRepository interface {
	Create(material *domain.Material) error
	List() ([]*domain.Material, error)
	GetByID(id string) (*domain.Material, error)
	Update(id string, req *domain.UpdateMaterialRequest) error
	Delete(id string) error
}

// materialRepo 实现 MaterialRepository 接口
type materialRepo struct {
	db *sql.DB
}

// NewMaterialRepository 创建原料仓储实例
func NewMaterialRepository(db *sql.DB) MaterialRepository {
	return &materialRepo{db: db}
}

// Create 创建原料记录，初始库存为 0
func (r *materialRepo) Create(material *domain.Material) error {
	if material.ID == "" {
		material.ID = uuid.New().String()
	}

	query := `
		INSERT INTO materials (id, material_code, material_name, description, color, stock)
		VALUES (?, ?, ?, ?, ?, 0)
	`
	_, err := r.db.Exec(query,
		material.ID,
		material.MaterialCode,
		material.MaterialName,
		material.Description,
		material.Color,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// List 按创建时间倒序返回全部原料
func (r *materialRepo) List() ([]*domain.Material, error) {
	query := `
		SELECT id, material_code, material_name, description, color, stock, created_at, updated_at
		FROM materials
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []*domain.Material
	for rows.Next() {
		m := &domain.Material{}
		if err := rows.Scan(&m.ID, &m.MaterialCode, &m.MaterialName, &m.Description, &m.Color, &m.Stock, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// GetByID 根据ID获取原料，不存在时返回 nil
func (r *materialRepo) GetByID(id string) (*domain.Material, error) {
	query := `
		SELECT id, material_code, material_name, description, color, stock, created_at, updated_at
		FROM materials
		WHERE id = ?
	`
	m := &domain.Material{}
	err := r.db.QueryRow(query, id).Scan(&m.ID, &m.MaterialCode, &m.MaterialName, &m.Description, &m.Color, &m.Stock, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material by id: %w", err)
	}
	return m, nil
}

// Update 更新原料的可变字段。库存不在其中。
func (r *materialRepo) Update(id string, req *domain.UpdateMaterialRequest) error {
	query := `
		UPDATE materials
		SET material_name = ?, description = ?, color = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, req.MaterialName, req.Description, req.Color, id)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	return nil
}

// Delete 硬删除原料记录。
// 采购与订单明细中的引用是快照/弱引用，不级联。
func (r *materialRepo) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM materials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

// 以下为事务内的库存台账操作，供订单与采购事务复用。
// 非负不变量在 UPDATE 语句的 WHERE 条件中强制：任何会使库存为负的
// 调整都命中 0 行，调用方收到 ErrInsufficientStock 并回滚整个事务。

// getStockForUpdateTx 以行锁读取原料当前库存（SELECT ... FOR UPDATE）。
// 锁在所属事务提交或回滚前一直持有，串行化对同一原料的并发占用。
func getStockForUpdateTx(tx *sql.Tx, materialID string) (int, error) {
	var stock int
	err := tx.QueryRow(`SELECT stock FROM materials WHERE id = ? FOR UPDATE`, materialID).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, domain.ErrMaterialNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock material stock: %w", err)
	}
	return stock, nil
}

// adjustStockTx 按带符号增量调整库存，负向调整不得越过 0。
// 零增量直接返回：MySQL 对无变化的行报告 0 行受影响，会被误判为失败。
func adjustStockTx(tx *sql.Tx, materialID string, delta int) error {
	if delta == 0 {
		return nil
	}
	result, err := tx.Exec(
		`UPDATE materials SET stock = stock + ? WHERE id = ? AND stock + ? >= 0`,
		delta, materialID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		// 行不存在，或调整会使库存为负
		exists, err := materialExistsTx(tx, materialID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrMaterialNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// adjustStockByCodeTx 与 adjustStockTx 相同，但按原料编码寻址。
// 采购记录以反规范化的编码引用原料。
func adjustStockByCodeTx(tx *sql.Tx, materialCode string, delta int) error {
	if delta == 0 {
		return nil
	}
	result, err := tx.Exec(
		`UPDATE materials SET stock = stock + ? WHERE material_code = ? AND stock + ? >= 0`,
		delta, materialCode, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust stock by code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE material_code = ?)`, materialCode).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check material existence: %w", err)
		}
		if !exists {
			return domain.ErrMaterialNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func materialExistsTx(tx *sql.Tx, materialID string) (bool, error) {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE id = ?)`, materialID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check material existence: %w", err)
	}
	return exists, nil
}
