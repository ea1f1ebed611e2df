package model

import (
	"time"
)

// Payment 对某个活动的一笔付款。
// 创建后不可修改，仅随活动删除而级联删除。
// hide_amount 只影响展示，不影响金额统计。
type Payment struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	CollectID  int64     `gorm:"not null;index" json:"collect_id"`
	Amount     float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	HideAmount bool      `gorm:"default:false" json:"hide_amount"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// 关联
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments []*Comment `gorm:"foreignKey:PaymentID" json:"comments,omitempty"`
	Likes    []*Like    `gorm:"foreignKey:PaymentID" json:"likes,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
