package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/pkg/email"
	"github.com/proninteam/collect_go_server/internal/pkg/queue"
	"github.com/proninteam/collect_go_server/internal/repository"
)

// EmailSender 邮件发送接口，测试时可替换
type EmailSender interface {
	SendCollectCreated(to, collectName string, collectID int64) error
	SendPaymentCreated(to, collectName string, amount float64) error
}

var _ EmailSender = (*email.Service)(nil)

// Notifier 通知任务处理器。
// collect_created 通知按至少一次语义投递：有限次指数退避重试，
// 带随机抖动，重试耗尽后仅记录日志。
// payment_created 通知尽力而为，失败不重试。
// 任何失败都不会传播回触发写入的请求。
type Notifier struct {
	jobQueue    *queue.Queue
	collectRepo *repository.CollectRepository
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	sender      EmailSender
	maxRetries  int
	retryBase   time.Duration
}

func NewNotifier(
	jobQueue *queue.Queue,
	collectRepo *repository.CollectRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	sender EmailSender,
	cfg *config.Config,
) *Notifier {
	maxRetries := cfg.Queue.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	retryBase := time.Duration(cfg.Queue.RetryBaseSeconds) * time.Second
	if retryBase <= 0 {
		retryBase = 60 * time.Second
	}

	return &Notifier{
		jobQueue:    jobQueue,
		collectRepo: collectRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		sender:      sender,
		maxRetries:  maxRetries,
		retryBase:   retryBase,
	}
}

// Run 消费通知队列直到 ctx 取消
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := n.jobQueue.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Notifier: failed to pop message: %v", err)
			continue
		}
		if msg == nil {
			continue
		}

		n.Handle(ctx, msg)
	}
}

// Handle 处理一条通知消息
func (n *Notifier) Handle(ctx context.Context, msg *queue.NotificationMessage) {
	switch msg.Type {
	case queue.TypeCollectCreated:
		n.sendWithRetry(ctx, msg, n.sendCollectCreated)
	case queue.TypePaymentCreated:
		if err := n.sendPaymentCreated(msg); err != nil {
			if isPermanent(err) {
				log.Printf("Notifier: dropping %s for payment %d: %v", msg.Type, msg.PaymentID, err)
				return
			}
			log.Printf("Notifier: failed to send %s for payment %d: %v", msg.Type, msg.PaymentID, err)
		}
	default:
		log.Printf("Notifier: unknown message type %q", msg.Type)
	}
}

// sendWithRetry 有限次指数退避重试，耗尽后记录日志放弃
func (n *Notifier) sendWithRetry(ctx context.Context, msg *queue.NotificationMessage, send func(*queue.NotificationMessage) error) {
	var lastErr error

	for attempt := 0; attempt < n.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoffDelay(attempt, n.retryBase)):
			}
		}

		lastErr = send(msg)
		if lastErr == nil {
			return
		}
		if isPermanent(lastErr) {
			log.Printf("Notifier: dropping %s for collect %d: %v", msg.Type, msg.CollectID, lastErr)
			return
		}

		log.Printf("Notifier: attempt %d for %s (collect %d) failed: %v",
			attempt+1, msg.Type, msg.CollectID, lastErr)
	}

	log.Printf("Notifier: giving up on %s for collect %d after %d attempts: %v",
		msg.Type, msg.CollectID, n.maxRetries, lastErr)
}

// backoffDelay 第 attempt 次重试前的等待时间：base * 2^(attempt-1) 加最多一半的抖动
func backoffDelay(attempt int, base time.Duration) time.Duration {
	delay := base << (attempt - 1)
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}

func (n *Notifier) sendCollectCreated(msg *queue.NotificationMessage) error {
	collect, err := n.collectRepo.GetByID(msg.CollectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permanentError{fmt.Errorf("collect %d no longer exists", msg.CollectID)}
		}
		return err
	}

	author, err := n.userRepo.GetByID(collect.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permanentError{fmt.Errorf("author %d no longer exists", collect.UserID)}
		}
		return err
	}

	return n.sender.SendCollectCreated(author.Email, collect.Name, collect.ID)
}

func (n *Notifier) sendPaymentCreated(msg *queue.NotificationMessage) error {
	payment, err := n.paymentRepo.GetByID(msg.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permanentError{fmt.Errorf("payment %d no longer exists", msg.PaymentID)}
		}
		return err
	}

	collect, err := n.collectRepo.GetByID(payment.CollectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permanentError{fmt.Errorf("collect %d no longer exists", payment.CollectID)}
		}
		return err
	}

	author, err := n.userRepo.GetByID(collect.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permanentError{fmt.Errorf("author %d no longer exists", collect.UserID)}
		}
		return err
	}

	return n.sender.SendPaymentCreated(author.Email, collect.Name, payment.Amount)
}

// permanentError 不可重试的失败，例如目标记录已删除
type permanentError struct {
	err error
}

func (e permanentError) Error() string {
	return e.err.Error()
}

func (e permanentError) Unwrap() error {
	return e.err
}

func isPermanent(err error) bool {
	var pe permanentError
	return errors.As(err, &pe)
}
