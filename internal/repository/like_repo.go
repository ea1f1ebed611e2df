package repository

import (
	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create 创建点赞记录。
// (user_id, payment_id) 由唯一索引保证，重复插入返回 gorm.ErrDuplicatedKey，
// 并发的重复点赞也只会有一个成功。
func (r *LikeRepository) Create(like *model.Like) error {
	return r.db.Create(like).Error
}

// DeleteByUserAndPayment 删除用户对某付款的点赞，返回影响行数
func (r *LikeRepository) DeleteByUserAndPayment(userID, paymentID int64) (int64, error) {
	result := r.db.Where("user_id = ? AND payment_id = ?", userID, paymentID).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

// Exists 检查点赞是否存在
func (r *LikeRepository) Exists(userID, paymentID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND payment_id = ?", userID, paymentID).
		Count(&count).Error
	return count > 0, err
}

// CountByPaymentID 统计付款的点赞数
func (r *LikeRepository) CountByPaymentID(paymentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}
