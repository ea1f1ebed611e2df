package model

import (
	"time"
)

// 事件类型常量
const (
	EventFormatOnline  = "online"
	EventFormatOffline = "offline"

	EventReasonBirthday = "date_birth"
	EventReasonWedding  = "wedding"
	EventReasonParty    = "company_party"
)

// Collect 众筹（群收款）活动。
// target_amount 和 total_amount 默认 0，0 表示不限额：
// 此时只有到达 stop_date 或作者手动停止才会结束收款。
// 作者可以重新激活已停止的活动。
type Collect struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	LogoURL     string `gorm:"size:500" json:"logo_url,omitempty"`

	// 事件信息
	EventFormat string `gorm:"size:20;not null" json:"event_format"` // online, offline
	EventReason string `gorm:"size:20;not null" json:"event_reason"` // date_birth, wedding, company_party
	EventDate   string `gorm:"size:10" json:"event_date"`            // YYYY-MM-DD
	EventTime   string `gorm:"size:8" json:"event_time"`             // HH:MM
	EventPlace  string `gorm:"type:text" json:"event_place"`

	// 金额信息，0 表示不限制
	MinPayment   float64 `gorm:"type:decimal(10,2);default:0" json:"min_payment"`
	TargetAmount float64 `gorm:"type:decimal(10,2);default:0" json:"target_amount"`
	TotalAmount  float64 `gorm:"type:decimal(10,2);default:0" json:"total_amount"`

	StopDate  time.Time `gorm:"not null" json:"stop_date"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Payments []*Payment `gorm:"foreignKey:CollectID" json:"payments,omitempty"`
}

func (Collect) TableName() string {
	return "collects"
}

// Capped 是否设置了总额上限
func (c *Collect) Capped() bool {
	return c.TotalAmount > 0
}

// Expired 是否已过截止时间
func (c *Collect) Expired(now time.Time) bool {
	return !now.Before(c.StopDate)
}
