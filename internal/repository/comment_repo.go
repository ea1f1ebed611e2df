package repository

import (
	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByIDWithUser 获取评论及用户信息
func (r *CommentRepository) GetByIDWithUser(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 删除评论
func (r *CommentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

// ListByPaymentID 获取付款的评论列表
func (r *CommentRepository) ListByPaymentID(paymentID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// CountByPaymentID 统计付款的评论数
func (r *CommentRepository) CountByPaymentID(paymentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}
