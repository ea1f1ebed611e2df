package repository

import (
	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

// Create 创建付款记录
func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID 根据 ID 获取付款
func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByIDWithUser 获取付款及付款人信息
func (r *PaymentRepository) GetByIDWithUser(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Preload("User").Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SumByCollectID 统计活动当前付款总额
func (r *PaymentRepository) SumByCollectID(collectID int64) (float64, error) {
	var sum float64
	err := r.db.Model(&model.Payment{}).
		Where("collect_id = ?", collectID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// CountByCollectID 统计活动付款笔数
func (r *PaymentRepository) CountByCollectID(collectID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Payment{}).
		Where("collect_id = ?", collectID).
		Count(&count).Error
	return count, err
}
