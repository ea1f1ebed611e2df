package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

// CommentItem 评论项
type CommentItem struct {
	ID        int64       `json:"id"`
	Author    *AuthorInfo `json:"author,omitempty"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"created_at"`
}

// LikeItem 点赞项
type LikeItem struct {
	ID        int64 `json:"id"`
	PaymentID int64 `json:"payment_id"`
	LikeCount int64 `json:"like_count"`
}
