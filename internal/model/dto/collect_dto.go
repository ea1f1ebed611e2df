package dto

import "time"

// EventInfo 活动对应的线下/线上事件信息
type EventInfo struct {
	Format string `json:"format" binding:"required,oneof=online offline"`
	Reason string `json:"reason" binding:"required,oneof=date_birth wedding company_party"`
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	Place  string `json:"place" binding:"required"`
}

// CreateCollectRequest 创建收款活动请求
type CreateCollectRequest struct {
	Name         string    `json:"name" binding:"required,max=255"`
	Slug         string    `json:"slug" binding:"required,max=255"`
	Description  string    `json:"description" binding:"required"`
	LogoURL      string    `json:"logo_url"`
	Event        EventInfo `json:"event" binding:"required"`
	MinPayment   float64   `json:"min_payment" binding:"gte=0"`
	TargetAmount float64   `json:"target_amount" binding:"gte=0"`
	TotalAmount  float64   `json:"total_amount" binding:"gte=0"`
	StopDate     time.Time `json:"stop_date" binding:"required"`
}

// UpdateCollectRequest 编辑收款活动请求，金额与状态字段不可修改
type UpdateCollectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Description *string    `json:"description,omitempty"`
	LogoURL     *string    `json:"logo_url,omitempty"`
	Event       *EventInfo `json:"event,omitempty"`
}

// ReactivateCollectRequest 重新激活请求，仅替换提供的字段
type ReactivateCollectRequest struct {
	TargetAmount *float64   `json:"target_amount,omitempty"`
	StopDate     *time.Time `json:"stop_date,omitempty"`
}

// AuthorInfo 作者信息
type AuthorInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// CollectItem 活动概要
type CollectItem struct {
	ID           int64       `json:"id"`
	Author       *AuthorInfo `json:"author,omitempty"`
	Name         string      `json:"name"`
	Slug         string      `json:"slug"`
	LogoURL      string      `json:"logo_url,omitempty"`
	MinPayment   float64     `json:"min_payment"`
	TargetAmount float64     `json:"target_amount"`
	TotalAmount  float64     `json:"total_amount"`
	StopDate     string      `json:"stop_date"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    string      `json:"created_at"`
}

// CollectDetail 活动详情（带付款列表与当前总额）
type CollectDetail struct {
	ID           int64          `json:"id"`
	Author       *AuthorInfo    `json:"author,omitempty"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Description  string         `json:"description"`
	LogoURL      string         `json:"logo_url,omitempty"`
	Event        *EventInfo     `json:"event"`
	MinPayment   float64        `json:"min_payment"`
	TargetAmount float64        `json:"target_amount"`
	TotalAmount  float64        `json:"total_amount"`
	StopDate     string         `json:"stop_date"`
	IsActive     bool           `json:"is_active"`
	Status       string         `json:"status"`
	CurrentSum   float64        `json:"current_sum"`
	Payments     []*PaymentItem `json:"payments"`
	CreatedAt    string         `json:"created_at"`
}
