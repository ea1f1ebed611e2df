package model

import (
	"time"
)

// Like 付款的点赞，(user_id, payment_id) 唯一。
type Like struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uniq_user_payment" json:"user_id"`
	PaymentID int64     `gorm:"not null;uniqueIndex:uniq_user_payment;index" json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
