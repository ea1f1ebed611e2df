package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/model/dto"
	"github.com/proninteam/collect_go_server/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	dispatcher  *events.Dispatcher
	cfg         *config.Config
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	dispatcher *events.Dispatcher,
	cfg *config.Config,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// Create 发表评论
func (s *CommentService) Create(ctx context.Context, userID, collectID, paymentID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
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

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:    userID,
		PaymentID: paymentID,
		Content:   req.Content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityComment,
		Action:    events.ActionCreated,
		CollectID: payment.CollectID,
		PaymentID: paymentID,
	})

	return &dto.CommentItem{
		ID:        comment.ID,
		Author:    buildAuthor(user),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}, nil
}

// Delete 删除评论，仅评论作者可删除
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != userID {
		return ErrCommentPermission
	}

	payment, err := s.paymentRepo.GetByID(comment.PaymentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return err
	}

	var collectID int64
	if payment != nil {
		collectID = payment.CollectID
	}
	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityComment,
		Action:    events.ActionDeleted,
		CollectID: collectID,
		PaymentID: comment.PaymentID,
	})

	return nil
}
