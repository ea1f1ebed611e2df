package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proninteam/collect_go_server/internal/model"
)

type CollectRepository struct {
	db *gorm.DB
}

func NewCollectRepository(db *gorm.DB) *CollectRepository {
	return &CollectRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *CollectRepository) WithTx(tx *gorm.DB) *CollectRepository {
	return &CollectRepository{db: tx}
}

// Create 创建活动
func (r *CollectRepository) Create(collect *model.Collect) error {
	return r.db.Create(collect).Error
}

// GetByID 根据 ID 获取活动
func (r *CollectRepository) GetByID(id int64) (*model.Collect, error) {
	var collect model.Collect
	err := r.db.Where("id = ?", id).First(&collect).Error
	if err != nil {
		return nil, err
	}
	return &collect, nil
}

// GetByIDForUpdate 加行锁获取活动，必须在事务内调用。
// 付款准入对 is_active 和金额的读写以该行锁为互斥边界。
// SQLite 不支持 FOR UPDATE，单写者模型下事务本身已串行化。
func (r *CollectRepository) GetByIDForUpdate(id int64) (*model.Collect, error) {
	tx := r.db
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var collect model.Collect
	err := tx.Where("id = ?", id).First(&collect).Error
	if err != nil {
		return nil, err
	}
	return &collect, nil
}

// GetDetail 获取活动详情（含作者、付款、评论、点赞）
func (r *CollectRepository) GetDetail(id int64) (*model.Collect, error) {
	var collect model.Collect
	err := r.db.Preload("User").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.created_at DESC")
		}).
		Preload("Payments.User").
		Preload("Payments.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Payments.Comments.User").
		Preload("Payments.Likes").
		Where("id = ?", id).First(&collect).Error
	if err != nil {
		return nil, err
	}
	return &collect, nil
}

// UpdateFields 更新指定字段
func (r *CollectRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Collect{}).Where("id = ?", id).Updates(fields).Error
}

// SetActive 更新活动状态
func (r *CollectRepository) SetActive(id int64, active bool) error {
	return r.db.Model(&model.Collect{}).Where("id = ?", id).
		Update("is_active", active).Error
}

// CountByNameOrSlug 统计同名或同 slug 的活动数（排除自身）
func (r *CollectRepository) CountByNameOrSlug(name, slug string, excludeID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Collect{}).
		Where("(name = ? OR slug = ?) AND id <> ?", name, slug, excludeID).
		Count(&count).Error
	return count, err
}

// Delete 删除活动及其付款、点赞、评论（单事务级联）
func (r *CollectRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var paymentIDs []int64
		if err := tx.Model(&model.Payment{}).Where("collect_id = ?", id).
			Pluck("id", &paymentIDs).Error; err != nil {
			return err
		}

		if len(paymentIDs) > 0 {
			if err := tx.Where("payment_id IN ?", paymentIDs).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("payment_id IN ?", paymentIDs).
				Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("collect_id = ?", id).
				Delete(&model.Payment{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Collect{}, id).Error
	})
}

// DeactivateExpired 停用所有已过截止时间仍活跃的活动，返回影响行数。
// 条件更新，幂等，可与付款准入并发执行。
func (r *CollectRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Collect{}).
		Where("is_active = ? AND stop_date <= ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// DeactivateCapReached 停用所有付款总额已达上限的活动，返回影响行数
func (r *CollectRepository) DeactivateCapReached() (int64, error) {
	result := r.db.Model(&model.Collect{}).
		Where("is_active = ? AND total_amount > 0", true).
		Where("total_amount <= (?)",
			r.db.Model(&model.Payment{}).
				Select("COALESCE(SUM(amount), 0)").
				Where("payments.collect_id = collects.id")).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
