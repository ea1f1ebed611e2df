package dto

// CreatePaymentRequest 创建付款请求
type CreatePaymentRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	HideAmount bool    `json:"hide_amount"`
}

// PaymentItem 付款展示项。
// 付款人选择隐藏金额时 amount 为 null，amount_hidden 为 true。
type PaymentItem struct {
	ID           int64          `json:"id"`
	Author       *AuthorInfo    `json:"author,omitempty"`
	Amount       *float64       `json:"amount"`
	AmountHidden bool           `json:"amount_hidden"`
	LikeCount    int64          `json:"like_count"`
	Comments     []*CommentItem `json:"comments"`
	CreatedAt    string         `json:"created_at"`
}
