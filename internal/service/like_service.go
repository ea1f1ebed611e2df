package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/model/dto"
	"github.com/proninteam/collect_go_server/internal/repository"
)

var (
	ErrAlreadyLiked = errors.New("已点赞过该付款")
	ErrLikeNotFound = errors.New("点赞不存在")
)

type LikeService struct {
	likeRepo    *repository.LikeRepository
	paymentRepo *repository.PaymentRepository
	dispatcher  *events.Dispatcher
	cfg         *config.Config
}

func NewLikeService(
	likeRepo *repository.LikeRepository,
	paymentRepo *repository.PaymentRepository,
	dispatcher *events.Dispatcher,
	cfg *config.Config,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		paymentRepo: paymentRepo,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// Like 点赞付款。
// 唯一索引保证同一用户对同一付款最多一个赞，
// 并发重复请求也只有一个成功，其余返回 ErrAlreadyLiked。
func (s *LikeService) Like(ctx context.Context, userID, collectID, paymentID int64) (*dto.LikeItem, error) {
	payment, err := s.getPayment(collectID, paymentID)
	if err != nil {
		return nil, err
	}

	like := &model.Like{
		UserID:    userID,
		PaymentID: paymentID,
	}
	if err := s.likeRepo.Create(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityLike,
		Action:    events.ActionCreated,
		CollectID: payment.CollectID,
		PaymentID: paymentID,
	})

	count, err := s.likeRepo.CountByPaymentID(paymentID)
	if err != nil {
		return nil, err
	}

	return &dto.LikeItem{
		ID:        like.ID,
		PaymentID: paymentID,
		LikeCount: count,
	}, nil
}

// Unlike 取消点赞
func (s *LikeService) Unlike(ctx context.Context, userID, collectID, paymentID int64) error {
	payment, err := s.getPayment(collectID, paymentID)
	if err != nil {
		return err
	}

	deleted, err := s.likeRepo.DeleteByUserAndPayment(userID, paymentID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrLikeNotFound
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityLike,
		Action:    events.ActionDeleted,
		CollectID: payment.CollectID,
		PaymentID: paymentID,
	})

	return nil
}

// getPayment 获取付款并校验归属的活动
func (s *LikeService) getPayment(collectID, paymentID int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.CollectID != collectID {
		return nil, ErrPaymentNotFound
	}

	return payment, nil
}
