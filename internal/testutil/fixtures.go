package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	user := &model.User{
		Username: fmt.Sprintf("testuser_%d", seq),
		Email:    fmt.Sprintf("test_%d@example.com", seq),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithFullName 设置姓名
func WithFullName(first, last string) func(*model.User) {
	return func(u *model.User) {
		u.FirstName = first
		u.LastName = last
	}
}

// TestCollect 创建测试活动，默认不限额、一天后截止、收款中
func TestCollect(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Collect)) *model.Collect {
	t.Helper()

	seq := nextSeq()
	collect := &model.Collect{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Collect %d", seq),
		Slug:        fmt.Sprintf("test-collect-%d", seq),
		Description: "test description",
		EventFormat: model.EventFormatOffline,
		EventReason: model.EventReasonBirthday,
		EventDate:   "2026-12-31",
		EventTime:   "18:00",
		EventPlace:  "somewhere",
		StopDate:    time.Now().Add(24 * time.Hour),
		IsActive:    true,
	}

	for _, opt := range opts {
		opt(collect)
	}

	if err := db.Create(collect).Error; err != nil {
		t.Fatalf("Failed to create test collect: %v", err)
	}

	return collect
}

// WithAmounts 设置最低付款、目标金额与总额上限
func WithAmounts(minPayment, targetAmount, totalAmount float64) func(*model.Collect) {
	return func(c *model.Collect) {
		c.MinPayment = minPayment
		c.TargetAmount = targetAmount
		c.TotalAmount = totalAmount
	}
}

// WithStopDate 设置截止时间
func WithStopDate(stopDate time.Time) func(*model.Collect) {
	return func(c *model.Collect) {
		c.StopDate = stopDate
	}
}

// WithInactive 设置为已停止
func WithInactive() func(*model.Collect) {
	return func(c *model.Collect) {
		c.IsActive = false
	}
}

// WithName 设置活动名称
func WithName(name, slug string) func(*model.Collect) {
	return func(c *model.Collect) {
		c.Name = name
		c.Slug = slug
	}
}

// TestPayment 创建测试付款
func TestPayment(t *testing.T, db *gorm.DB, userID, collectID int64, amount float64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		UserID:    userID,
		CollectID: collectID,
		Amount:    amount,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithHiddenAmount 设置隐藏金额
func WithHiddenAmount() func(*model.Payment) {
	return func(p *model.Payment) {
		p.HideAmount = true
	}
}

// TestLike 创建测试点赞
func TestLike(t *testing.T, db *gorm.DB, userID, paymentID int64) *model.Like {
	t.Helper()

	like := &model.Like{
		UserID:    userID,
		PaymentID: paymentID,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, paymentID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:    userID,
		PaymentID: paymentID,
		Content:   content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}
