package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/model/dto"
	"github.com/proninteam/collect_go_server/internal/repository"
)

var (
	ErrCollectClosed   = errors.New("收款已结束，不再接受付款")
	ErrPaymentNotFound = errors.New("付款不存在")
)

// AmountTooSmallError 付款金额低于活动最低限额
type AmountTooSmallError struct {
	Min float64
}

func (e *AmountTooSmallError) Error() string {
	return fmt.Sprintf("付款金额不得低于最低限额 %.2f", e.Min)
}

// PaymentService 付款准入控制。
// 校验顺序：活动状态 → 总额上限 → 截止时间 → 最低金额，首个失败即返回。
// 上限和截止时间的检查即使拒绝付款也会把活动置为停止，
// 惰性失效由付款尝试本身触发，不依赖后台扫描。
type PaymentService struct {
	db          *gorm.DB
	collectRepo *repository.CollectRepository
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	dispatcher  *events.Dispatcher
	cfg         *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	collectRepo *repository.CollectRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	dispatcher *events.Dispatcher,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		db:          db,
		collectRepo: collectRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// Create 付款准入。
// 整个判定在一个事务内完成，活动行加 FOR UPDATE 锁，
// 并发付款串行通过准入检查，总额读数始终包含已提交的付款，
// 上限不会被两笔并发付款同时挤过。
// 拒绝路径上对 is_active 的修改是事务里唯一的写入，随事务提交生效。
func (s *PaymentService) Create(ctx context.Context, userID, collectID int64, req *dto.CreatePaymentRequest) (*dto.PaymentItem, error) {
	var (
		payment     *model.Payment
		admitErr    error
		deactivated bool
	)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		collectRepo := s.collectRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		collect, err := collectRepo.GetByIDForUpdate(collectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				admitErr = ErrCollectNotFound
				return nil
			}
			return err
		}

		// 1. 活动必须处于收款中
		if !collect.IsActive {
			admitErr = ErrCollectClosed
			return nil
		}

		// 2. 上限检查：在锁内重新统计总额
		var currentSum float64
		if collect.Capped() {
			currentSum, err = paymentRepo.SumByCollectID(collectID)
			if err != nil {
				return err
			}
			if currentSum+req.Amount > collect.TotalAmount {
				if err := collectRepo.SetActive(collectID, false); err != nil {
					return err
				}
				deactivated = true
				admitErr = ErrCollectClosed
				return nil
			}
		}

		// 3. 截止时间检查
		if collect.Expired(time.Now()) {
			if err := collectRepo.SetActive(collectID, false); err != nil {
				return err
			}
			deactivated = true
			admitErr = ErrCollectClosed
			return nil
		}

		// 4. 最低金额检查
		if req.Amount < collect.MinPayment {
			admitErr = &AmountTooSmallError{Min: collect.MinPayment}
			return nil
		}

		payment = &model.Payment{
			UserID:     userID,
			CollectID:  collectID,
			Amount:     req.Amount,
			HideAmount: req.HideAmount,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		// 本笔付款使总额到达或超过上限时，同一事务内停止收款
		if collect.Capped() && currentSum+req.Amount >= collect.TotalAmount {
			if err := collectRepo.SetActive(collectID, false); err != nil {
				return err
			}
			deactivated = true
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if admitErr != nil {
		// 拒绝也可能改变了活动状态，详情缓存需要失效
		if deactivated {
			s.dispatcher.Dispatch(ctx, events.Event{
				Entity:    events.EntityCollect,
				Action:    events.ActionUpdated,
				CollectID: collectID,
			})
		}
		return nil, admitErr
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityPayment,
		Action:    events.ActionCreated,
		CollectID: collectID,
		PaymentID: payment.ID,
	})
	if deactivated {
		s.dispatcher.Dispatch(ctx, events.Event{
			Entity:    events.EntityCollect,
			Action:    events.ActionUpdated,
			CollectID: collectID,
		})
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	payment.User = user

	return buildPaymentItem(payment), nil
}

// CurrentSum 活动当前付款总额
func (s *PaymentService) CurrentSum(collectID int64) (float64, error) {
	return s.paymentRepo.SumByCollectID(collectID)
}
